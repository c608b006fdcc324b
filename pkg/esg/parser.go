package esg

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lines opening with one of these glyphs end the ESG summary.
var summaryStops = []string{"💡", "📊", "📰"}

// The prompt summary additionally ends at the next 📌 header.
var promptSummaryStops = []string{"📌", "💡", "📊", "📰"}

// Dash runs trail the financial section before the diagnosis line.
const financialDashes = "-–—"

// A trailing line made only of these is a horizontal rule.
const ruleRunes = "-–—=_ \t"

// ParseReport converts report text into a Report. It never fails: any section
// whose marker is missing comes back empty, and malformed company or news
// entries are dropped.
func ParseReport(text string) *Report {
	report := &Report{
		PromptSummary: extractSection(text, MarkerPromptSummary, promptSummaryStops),
		Summary:       extractSection(text, MarkerESGSummary, summaryStops),
		Companies:     parseCompanies(recommendationsSpan(text)),
		NewsLinks:     parseNewsLinks(newsSpan(text)),
	}
	report.Empty = isEmptyReport(text, report)
	return report
}

func isEmptyReport(text string, r *Report) bool {
	for _, sentinel := range noContentSentinels {
		if strings.Contains(text, sentinel) {
			return true
		}
	}
	return r.Summary == "" && len(r.Companies) == 0 && len(r.NewsLinks) == 0
}

// extractSection returns the trimmed text after marker, up to the first
// following line that opens with one of stops.
func extractSection(text, marker string, stops []string) string {
	at := strings.Index(text, marker)
	if at < 0 {
		return ""
	}
	lines := strings.Split(text[at+len(marker):], "\n")
	kept := lines[:0:0]
	for i, line := range lines {
		if i > 0 && startsWithAny(strings.TrimLeft(line, " \t\r"), stops) {
			break
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func recommendationsSpan(text string) string {
	at := strings.Index(text, MarkerRecommendations)
	if at < 0 {
		return ""
	}
	span := text[at+len(MarkerRecommendations):]
	if end := strings.Index(span, MarkerNews); end >= 0 {
		span = span[:end]
	}
	return span
}

func newsSpan(text string) string {
	at := strings.Index(text, MarkerNews)
	if at < 0 {
		return ""
	}
	return text[at+len(MarkerNews):]
}

func parseCompanies(span string) []Company {
	companies := []Company{}
	for _, block := range splitAtOrdinals(span, IconCompany) {
		company, ok := parseCompanyBlock(block)
		if !ok {
			continue
		}
		company.Rank = len(companies) + 1
		companies = append(companies, company)
	}
	return companies
}

// splitAtOrdinals cuts s at every "<digits>.<space><icon><space>" delimiter and
// drops blank pieces. The text before the first delimiter is kept as a piece.
func splitAtOrdinals(s, icon string) []string {
	var pieces []string
	start := 0
	for i := 0; i < len(s); {
		if end, ok := matchOrdinal(s, i, icon, true); ok {
			pieces = append(pieces, s[start:i])
			start, i = end, end
			continue
		}
		i++
	}
	pieces = append(pieces, s[start:])

	kept := pieces[:0]
	for _, piece := range pieces {
		if strings.TrimSpace(piece) != "" {
			kept = append(kept, piece)
		}
	}
	return kept
}

// matchOrdinal reports whether s[i:] begins with "<digits>.<space><icon>",
// optionally followed by one more whitespace rune, and returns the end offset.
func matchOrdinal(s string, i int, icon string, trailingSpace bool) (int, bool) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i || j >= len(s) || s[j] != '.' {
		return 0, false
	}
	j, ok := skipSpace(s, j+1)
	if !ok || !strings.HasPrefix(s[j:], icon) {
		return 0, false
	}
	j += len(icon)
	if trailingSpace {
		if j, ok = skipSpace(s, j); !ok {
			return 0, false
		}
	}
	return j, true
}

// skipSpace consumes exactly one whitespace rune at s[i:].
func skipSpace(s string, i int) (int, bool) {
	if i >= len(s) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s[i:])
	if !unicode.IsSpace(r) {
		return 0, false
	}
	return i + size, true
}

func parseCompanyBlock(block string) (Company, bool) {
	name := strings.TrimSpace(firstLine(strings.TrimSpace(block)))
	if strings.HasPrefix(name, MarkerReason) || strings.HasPrefix(name, MarkerFinancials) {
		name = ""
	}

	reasonAt := strings.Index(block, MarkerReason)
	financialsAt := strings.Index(block, MarkerFinancials)

	reason := ""
	if reasonAt >= 0 {
		from := reasonAt + len(MarkerReason)
		to := len(block)
		if financialsAt >= from {
			to = financialsAt
		}
		reason = strings.TrimSpace(block[from:to])
	}
	if name == "" || reason == "" {
		return Company{}, false
	}

	company := Company{Name: name, Reason: reason}
	if financialsAt >= 0 {
		data := strings.TrimSpace(block[financialsAt+len(MarkerFinancials):])
		if at := strings.Index(data, MarkerFinancialSummary); at >= 0 {
			company.FinancialSummary = strings.TrimSpace(data[at+len(MarkerFinancialSummary):])
			data = data[:at]
		}
		company.FinancialData = trimSeparators(data)
	}
	return company, true
}

// trimSeparators drops trailing dash runs, whitespace and rule lines.
func trimSeparators(s string) string {
	for {
		s = strings.TrimRightFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(financialDashes, r)
		})
		i := strings.LastIndexByte(s, '\n')
		last := s[i+1:]
		if last == "" || strings.Trim(last, ruleRunes) != "" {
			return strings.TrimSpace(s)
		}
		s = s[:i+1]
	}
}

func parseNewsLinks(span string) []NewsLink {
	links := []NewsLink{}
	for _, chunk := range splitNewsChunks(strings.TrimSpace(span)) {
		title := articleTitle(chunk)
		url := linkURL(chunk)
		if title == "" || url == "" {
			continue
		}
		links = append(links, NewsLink{Title: title, URL: url})
	}
	return links
}

// splitNewsChunks starts a new chunk at each line that opens with
// "<digits>.<space>📄".
func splitNewsChunks(span string) []string {
	if span == "" {
		return nil
	}
	var chunks []string
	var current []string
	for _, line := range strings.Split(span, "\n") {
		if _, ok := matchOrdinal(strings.TrimLeft(line, " \t"), 0, IconArticle, false); ok && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

func articleTitle(chunk string) string {
	at := strings.Index(chunk, IconArticle)
	if at < 0 {
		return ""
	}
	line := firstLine(chunk[at+len(IconArticle):])
	if _, ok := skipSpace(line, 0); !ok {
		return ""
	}
	return strings.TrimSpace(line)
}

func linkURL(chunk string) string {
	for offset := 0; ; {
		at := strings.Index(chunk[offset:], IconLink)
		if at < 0 {
			return ""
		}
		start := offset + at + len(IconLink)
		offset = start
		j, ok := skipSpace(chunk, start)
		if !ok {
			continue
		}
		rest := chunk[j:]
		if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
			continue
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		url := rest[:end]
		if strings.HasSuffix(url, "://") {
			continue
		}
		return url
	}
}

func firstLine(s string) string {
	if at := strings.IndexByte(s, '\n'); at >= 0 {
		return s[:at]
	}
	return s
}

func startsWithAny(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
