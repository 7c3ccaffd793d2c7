package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"rpaetl/internal/domain"
	"rpaetl/internal/fiscal"
)

// GenericNameTokens are captions and boilerplate words that never form a party name.
var GenericNameTokens = map[string]bool{
	"DO": true, "DE": true, "DA": true, "DOS": true, "DAS": true,
	"SERVICO": true, "SERVICOS": true, "PRODUTO": true, "PRODUTOS": true,
	"PRESTADOR": true, "TOMADOR": true, "EMITENTE": true, "DESTINATARIO": true,
	"CNPJ": true, "CPF": true, "DADOS": true, "MUNICIPAL": true, "SECRETARIA": true,
	"FAZENDA": true, "PREFEITURA": true, "NOTA": true, "FISCAL": true, "ELETRONICA": true,
	"NFSE": true, "NFE": true, "NFS-E": true, "NOME": true, "RAZAO": true, "SOCIAL": true,
	"ENDERECO": true, "MUNICIPIO": true, "UF": true, "EMPRESARIAL": true, "NIF": true,
	"INSCRICAO": true, "ESTADUAL": true,
}

var (
	reSpaces        = regexp.MustCompile(`\s+`)
	reTrailingPunct = regexp.MustCompile(`[.\-,]+$`)
)

// ExtractParty reads one block. The name is the first line that is not a tax
// id and survives CleanPartyName; the tax id is the first checksum-valid CNPJ
// of the block. A block with neither yields nil.
func ExtractParty(block string) *domain.Party {
	var lines []string
	for _, ln := range strings.Split(block, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	party := &domain.Party{TaxID: firstValidCNPJ(block)}
	for _, ln := range lines {
		if cnpjPattern.MatchString(ln) {
			continue
		}
		if name, ok := CleanPartyName(ln); ok {
			party.Name = &name
			break
		}
	}
	if party.Name == nil && party.TaxID == nil {
		return nil
	}

	fillContact(party, lines)
	return party
}

// CleanPartyName uppercases and tidies a candidate name. It rejects names made
// only of short words or GenericNameTokens (compared without accents).
func CleanPartyName(raw string) (string, bool) {
	name := strings.TrimSpace(strings.ToUpper(reSpaces.ReplaceAllString(raw, " ")))
	name = strings.TrimSpace(reTrailingPunct.ReplaceAllString(name, ""))
	if name == "" {
		return "", false
	}

	var significant []string
	for _, tok := range strings.Fields(RemoveAccents(name)) {
		if utf8.RuneCountInString(tok) > 2 {
			significant = append(significant, tok)
		}
	}
	if len(significant) == 0 {
		return "", false
	}
	for _, tok := range significant {
		if !GenericNameTokens[tok] {
			return name, true
		}
	}
	return "", false
}

// RemoveAccents decomposes s and drops combining marks ("SERVIÇO" -> "SERVICO").
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func firstValidCNPJ(block string) *string {
	for _, candidate := range cnpjPattern.FindAllString(block, -1) {
		if res := fiscal.ValidateCNPJ(candidate); res.Valid {
			return &res.Formatted
		}
	}
	return nil
}

func fillContact(party *domain.Party, lines []string) {
	for _, ln := range lines {
		if party.Address == nil {
			if m := addressPattern.FindStringSubmatch(ln); m != nil {
				v := strings.TrimSpace(m[1])
				party.Address = &v
			}
		}
		if party.MunicipalRegistration == nil {
			if m := municipalPattern.FindStringSubmatch(ln); m != nil {
				v := m[1]
				party.MunicipalRegistration = &v
			}
		}
		if party.Email == nil {
			if m := emailPattern.FindString(ln); m != "" {
				v := strings.ToLower(m)
				party.Email = &v
			}
		}
		if party.Phone == nil {
			if m := phonePattern.FindStringSubmatch(ln); m != nil {
				v := m[1]
				party.Phone = &v
			}
		}
	}
}
