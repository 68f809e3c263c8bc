package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/isocert"
)

// SystemPrompt is the system instruction sent with every LLM lookup.
const SystemPrompt = "You are an ISO certification information search assistant. Return only valid JSON, no other text."

// llmSourceName labels records whose model output named no source.
const llmSourceName = "LLM"

// Ensure LLMFinder implements isocert.CertificationFinder at compile time.
var _ isocert.CertificationFinder = (*LLMFinder)(nil)

// LLMFinder looks up certifications by asking a language model for a JSON
// array of records.
type LLMFinder struct {
	LLM isocert.LLM

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewLLMFinder creates a new LLMFinder.
func NewLLMFinder(llm isocert.LLM) *LLMFinder {
	return &LLMFinder{LLM: llm}
}

// FindCertifications asks the model about companyName. A response without
// a JSON array yields no records; a malformed array yields an EINVALID error.
func (f *LLMFinder) FindCertifications(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	text, err := f.LLM.Complete(ctx, SystemPrompt, BuildPrompt(companyName))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	return ParseLLMResponse(text, now)
}

// BuildPrompt builds the user prompt for companyName.
func BuildPrompt(companyName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search for ISO certification information for the company %q.\n", companyName)
	sb.WriteString(`Return a JSON array with the following structure:
[
  {
    "companyName": "company name",
    "certificationTypes": ["ISO 9001:2015", "ISO 14001:2015"],
    "certificationBodies": [{"name": "KSA"}],
    "issuedDate": "YYYY-MM-DD",
    "expiryDate": "YYYY-MM-DD",
    "status": "valid|expired|unknown",
    "sources": [{"url": "source url", "source": "source name", "retrievedAt": "ISO8601 timestamp"}]
  }
]
If no information is found, return an empty array [].`)
	return sb.String()
}

// ParseLLMResponse extracts the JSON array spanning the first '[' to the
// last ']' of text and converts its entries into records. Model prose around
// the array is ignored. Entries without a company name or certification
// types are dropped; entries without sources are attributed to the LLM.
func ParseLLMResponse(text string, now time.Time) ([]*isocert.Certification, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return []*isocert.Certification{}, nil
	}

	var entries []llmCertification
	if err := json.Unmarshal([]byte(text[start:end+1]), &entries); err != nil {
		return nil, isocert.Errorf(isocert.EINVALID, "llm response is not a certification array: %v", err)
	}

	certs := make([]*isocert.Certification, 0, len(entries))
	for _, e := range entries {
		if c := e.toCertification(now); c != nil {
			certs = append(certs, c)
		}
	}
	return certs, nil
}

// llmCertification is the lenient wire form of one model-reported record.
type llmCertification struct {
	CompanyName         string      `json:"companyName"`
	CompanyNameEn       string      `json:"companyNameEn"`
	CertificationTypes  []string    `json:"certificationTypes"`
	CertificationBodies []llmBody   `json:"certificationBodies"`
	IssuedDate          string      `json:"issuedDate"`
	ExpiryDate          string      `json:"expiryDate"`
	Status              string      `json:"status"`
	Sources             []llmSource `json:"sources"`
}

type llmSource struct {
	URL         string `json:"url"`
	Source      string `json:"source"`
	RetrievedAt string `json:"retrievedAt"`
}

// llmBody accepts either {"name": ..., "code": ...} or a bare string.
type llmBody isocert.Body

func (b *llmBody) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = llmBody(isocert.ParseBody(s))
		return nil
	}
	var body struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*b = llmBody{Name: strings.TrimSpace(body.Name), Code: strings.TrimSpace(body.Code)}
	return nil
}

func (e llmCertification) toCertification(now time.Time) *isocert.Certification {
	name := strings.TrimSpace(e.CompanyName)
	var types []string
	for _, t := range e.CertificationTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	if name == "" || len(types) == 0 {
		return nil
	}

	c := &isocert.Certification{
		CompanyName:        name,
		CompanyNameEn:      strings.TrimSpace(e.CompanyNameEn),
		CertificationTypes: types,
		IssuedDate:         isocert.NormalizeDate(e.IssuedDate),
		ExpiryDate:         isocert.NormalizeDate(e.ExpiryDate),
		Status:             isocert.ParseStatus(e.Status),
	}
	for _, b := range e.CertificationBodies {
		if b.Name != "" {
			c.CertificationBodies = append(c.CertificationBodies, isocert.Body(b))
		}
	}
	for _, s := range e.Sources {
		retrievedAt, err := time.Parse(time.RFC3339, s.RetrievedAt)
		if err != nil {
			retrievedAt = now
		}
		source := strings.TrimSpace(s.Source)
		if source == "" {
			source = llmSourceName
		}
		c.Sources = append(c.Sources, isocert.Source{URL: strings.TrimSpace(s.URL), Source: source, RetrievedAt: retrievedAt})
	}
	if len(c.Sources) == 0 {
		c.Sources = []isocert.Source{{Source: llmSourceName, RetrievedAt: now}}
	}
	return c
}
