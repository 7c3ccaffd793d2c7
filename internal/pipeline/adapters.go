package pipeline

import (
	"rpaetl/internal/domain"
	"rpaetl/internal/fiscal"
)

// Document types reported to the ERP.
const (
	DocumentNFSe = "NFS-e"
	DocumentNFe  = "NF-e"
)

// AnalyticsType is the event type of every analytics row.
const AnalyticsType = "invoice_processed"

// ERPParty is a supplier or customer as the ERP expects it.
type ERPParty struct {
	TaxID *string `json:"tax_id"`
	Name  *string `json:"name"`
}

// ERPLineItem is one ERP line.
type ERPLineItem struct {
	Description string  `json:"description"`
	Amount      *string `json:"amount"`
}

// ERPPayload is the document shape consumed by the enterprise ERP integration.
type ERPPayload struct {
	DocumentType string        `json:"document_type"`
	IssueDate    *string       `json:"issue_date"`
	Supplier     ERPParty      `json:"supplier"`
	Customer     ERPParty      `json:"customer"`
	LineItems    []ERPLineItem `json:"line_items"`
	TotalAmount  *string       `json:"total_amount"`
	AccessKey    *string       `json:"access_key,omitempty"`
}

// AnalyticsEvent is the flat row written to the analytics store.
type AnalyticsEvent struct {
	EventTime   *string `json:"event_time"`
	EventType   string  `json:"event_type"`
	IssuerCNPJ  *string `json:"issuer_cnpj"`
	TotalValue  *string `json:"total_value"`
	ItemsCount  int     `json:"items_count"`
	HasKey      bool    `json:"has_key"`
	TrustScore  float64 `json:"trust_score"`
	FinalStatus string  `json:"final_status"`
}

// ToERPPayload maps an extraction onto the ERP document shape.
func ToERPPayload(p *domain.ExtractionResult) ERPPayload {
	out := ERPPayload{
		DocumentType: DocumentType(p),
		IssueDate:    p.EmissionDate,
		Supplier:     toERPParty(p.Issuer),
		Customer:     toERPParty(p.Recipient),
		LineItems:    make([]ERPLineItem, 0, len(p.Items)),
		TotalAmount:  p.Financials.Total,
		AccessKey:    p.AccessKey,
	}
	for _, it := range p.Items {
		out.LineItems = append(out.LineItems, ERPLineItem{Description: it.Description, Amount: it.UnitValue})
	}
	return out
}

// ToAnalyticsEvent flattens a finished run for analytics.
func ToAnalyticsEvent(result *domain.PipelineResult) AnalyticsEvent {
	ev := AnalyticsEvent{
		EventType:   AnalyticsType,
		TrustScore:  result.TrustScore,
		FinalStatus: string(result.Status),
	}
	p := result.Payload
	if p == nil {
		return ev
	}
	ev.EventTime = p.EmissionDate
	if p.Issuer != nil {
		ev.IssuerCNPJ = p.Issuer.TaxID
	}
	ev.TotalValue = p.Financials.Total
	ev.ItemsCount = len(p.Items)
	ev.HasKey = p.AccessKey != nil
	return ev
}

// DocumentType infers the fiscal document type from the access key model.
// Service invoices carry no access key.
func DocumentType(p *domain.ExtractionResult) string {
	if p.AccessKey == nil {
		return DocumentNFSe
	}
	if model := fiscal.ValidateAccessKey(*p.AccessKey).Model; model != "" {
		return model
	}
	return DocumentNFe
}

func toERPParty(p *domain.Party) ERPParty {
	if p == nil {
		return ERPParty{}
	}
	return ERPParty{TaxID: p.TaxID, Name: p.Name}
}
