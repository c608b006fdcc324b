package esg

import (
	"reflect"
	"strings"
	"testing"
)

func sampleRequest() AnalysisRequest {
	return AnalysisRequest{UserStyle: "공격적", Env: 40, Soc: 30, Gov: 30, Source: DefaultSource}
}

func TestParseReport_SampleReport(t *testing.T) {
	t.Parallel()

	report := ParseReport(SampleReport(sampleRequest()))

	if report.Empty {
		t.Fatal("sample report should not be empty")
	}
	if !strings.HasPrefix(report.Summary, "뉴스와 재무 데이터를 분석한 결과") {
		t.Fatalf("unexpected summary: %q", report.Summary)
	}
	if !strings.Contains(report.PromptSummary, "공격적 투자자") {
		t.Fatalf("unexpected prompt summary: %q", report.PromptSummary)
	}
	if strings.Contains(report.PromptSummary, MarkerESGSummary) {
		t.Fatalf("prompt summary ran into the next section: %q", report.PromptSummary)
	}

	wantNames := []string{"이닉스", "엘앤에프", "삼성SDI"}
	if len(report.Companies) != len(wantNames) {
		t.Fatalf("expected %d companies, got %d: %+v", len(wantNames), len(report.Companies), report.Companies)
	}
	for i, company := range report.Companies {
		if company.Rank != i+1 {
			t.Errorf("company %d: rank %d", i, company.Rank)
		}
		if company.Name != wantNames[i] {
			t.Errorf("company %d: name %q, want %q", i, company.Name, wantNames[i])
		}
		if !strings.HasPrefix(company.Reason, wantNames[i]+"는") {
			t.Errorf("company %d: reason %q", i, company.Reason)
		}
		if company.FinancialData != "" || company.FinancialSummary != "" {
			t.Errorf("company %d: unexpected financial fields %+v", i, company)
		}
	}

	wantNews := []NewsLink{
		{Title: "이닉스, 전기차 배터리 안전 솔루션 선도 기업", URL: "http://www.finomy.com/news/articleView.html?idxno=234780"},
		{Title: "엘앤에프, 폐기물 매립 제로(ZWTL) 플래티넘 등급 획득", URL: "https://www.cstimes.com/news/articleView.html?idxno=658604"},
		{Title: "삼성SDI, 친환경 배터리 기술 혁신으로 ESG 경영 선도", URL: "https://www.etnews.com/news/articleView.html?idxno=2024010100001"},
	}
	if !reflect.DeepEqual(report.NewsLinks, wantNews) {
		t.Fatalf("news links mismatch:\n got %+v\nwant %+v", report.NewsLinks, wantNews)
	}
}

func TestParseReport_EmptyInput(t *testing.T) {
	t.Parallel()

	report := ParseReport("")
	if !report.Empty {
		t.Fatal("expected empty report")
	}
	if report.Summary != "" || report.PromptSummary != "" {
		t.Fatalf("expected empty summaries, got %+v", report)
	}
	if report.Companies == nil || len(report.Companies) != 0 {
		t.Fatalf("expected empty non-nil companies, got %#v", report.Companies)
	}
	if report.NewsLinks == nil || len(report.NewsLinks) != 0 {
		t.Fatalf("expected empty non-nil news links, got %#v", report.NewsLinks)
	}
}

func TestParseReport_SingleCompanyWithoutFinancials(t *testing.T) {
	t.Parallel()

	text := MarkerRecommendations + "\n\n1. 🏢 한화솔루션\n" + MarkerReason + " 태양광 모듈 사업을 확대하고 있습니다.\n"
	report := ParseReport(text)

	want := []Company{{Rank: 1, Name: "한화솔루션", Reason: "태양광 모듈 사업을 확대하고 있습니다."}}
	if !reflect.DeepEqual(report.Companies, want) {
		t.Fatalf("got %+v, want %+v", report.Companies, want)
	}
	if report.Empty {
		t.Fatal("report with a company should not be empty")
	}
}

func TestParseReport_SkipsBlocksWithoutReason(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		MarkerRecommendations,
		"1. 🏢 이름만 있는 기업",
		"설명이 없습니다.",
		"2. 🏢 포스코퓨처엠",
		MarkerReason + " 이차전지 소재 공급망을 갖추고 있습니다.",
		"3. 🏢 ",
		MarkerReason + " 이름이 없는 블록입니다.",
		"4. 🏢 LG에너지솔루션",
		MarkerReason + " 글로벌 배터리 점유율이 높습니다.",
		MarkerNews,
	}, "\n")

	report := ParseReport(text)
	if len(report.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %+v", report.Companies)
	}
	if report.Companies[0].Name != "포스코퓨처엠" || report.Companies[0].Rank != 1 {
		t.Fatalf("unexpected first company %+v", report.Companies[0])
	}
	if report.Companies[1].Name != "LG에너지솔루션" || report.Companies[1].Rank != 2 {
		t.Fatalf("unexpected second company %+v", report.Companies[1])
	}
}

func TestParseReport_FinancialData(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		MarkerRecommendations,
		"1. 🏢 한화솔루션",
		MarkerReason + " 태양광 사업 확대.",
		MarkerFinancials,
		"- 매출액: 13조 원",
		"- 영업이익률: 4.1%",
		"---",
		MarkerFinancialSummary + " 수익성 회복 구간.",
		"",
		"2. 🏢 SK이노베이션",
		MarkerReason + " 정유 부문 탈탄소 전환.",
		MarkerFinancials + " 부채비율 150% — ",
		MarkerNews,
	}, "\n")

	report := ParseReport(text)
	if len(report.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %+v", report.Companies)
	}

	first := report.Companies[0]
	if first.Reason != "태양광 사업 확대." {
		t.Errorf("reason = %q", first.Reason)
	}
	if first.FinancialData != "- 매출액: 13조 원\n- 영업이익률: 4.1%" {
		t.Errorf("financial data = %q", first.FinancialData)
	}
	if first.FinancialSummary != "수익성 회복 구간." {
		t.Errorf("financial summary = %q", first.FinancialSummary)
	}

	second := report.Companies[1]
	if second.FinancialData != "부채비율 150%" {
		t.Errorf("financial data = %q", second.FinancialData)
	}
	if second.FinancialSummary != "" {
		t.Errorf("financial summary = %q", second.FinancialSummary)
	}
}

func TestParseReport_FinancialDataKeepsTail(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		MarkerRecommendations,
		"1. 🏢 포스코퓨처엠",
		MarkerReason + " 양극재 공급 확대.",
		MarkerFinancials + " 영업이익률 **12%**",
		"",
		"2. 🏢 에코프로비엠",
		MarkerReason + " 재활용 원료 비중 확대.",
		MarkerFinancials,
		"- URL: https://ir.example.com/",
	}, "\n")

	report := ParseReport(text)
	if len(report.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %+v", report.Companies)
	}
	if got := report.Companies[0].FinancialData; got != "영업이익률 **12%**" {
		t.Errorf("financial data = %q", got)
	}
	if got := report.Companies[1].FinancialData; got != "- URL: https://ir.example.com/" {
		t.Errorf("financial data = %q", got)
	}
}

func TestParseReport_ReasonAsFirstLineIsSkipped(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		MarkerRecommendations,
		"1. 🏢",
		MarkerReason + " 이름 없는 블록.",
		"2. 🏢 LG화학",
		MarkerReason + " 친환경 소재 전환.",
	}, "\n")

	report := ParseReport(text)
	if len(report.Companies) != 1 {
		t.Fatalf("expected 1 company, got %+v", report.Companies)
	}
	if c := report.Companies[0]; c.Name != "LG화학" || c.Rank != 1 || c.Reason != "친환경 소재 전환." {
		t.Fatalf("unexpected company %+v", c)
	}
}

func TestParseReport_CompaniesRunToEndWithoutNewsMarker(t *testing.T) {
	t.Parallel()

	text := MarkerRecommendations + "\n1. 🏢 카카오\n" + MarkerReason + " 지배구조 개선.\n2. 🏢 네이버\n" + MarkerReason + " 데이터센터 재생에너지 전환."
	report := ParseReport(text)
	if len(report.Companies) != 2 || report.Companies[1].Reason != "데이터센터 재생에너지 전환." {
		t.Fatalf("unexpected companies %+v", report.Companies)
	}
	if len(report.NewsLinks) != 0 {
		t.Fatalf("expected no news links, got %+v", report.NewsLinks)
	}
}

func TestParseReport_NewsItems(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		MarkerNews,
		"1. 📄 링크가 없는 기사",
		"2. 📄 정상 기사",
		"🔗 https://example.com/a?b=1 참고",
		"3. 📄 잘못된 링크",
		"🔗 ftp://example.com/file",
		"4. 📄 두 번째 링크가 유효",
		"🔗 없음",
		"🔗 http://example.org/x",
		"5. 📄",
		"🔗 https://example.com/no-title",
	}, "\n")

	report := ParseReport(text)
	want := []NewsLink{
		{Title: "정상 기사", URL: "https://example.com/a?b=1"},
		{Title: "두 번째 링크가 유효", URL: "http://example.org/x"},
	}
	if !reflect.DeepEqual(report.NewsLinks, want) {
		t.Fatalf("got %+v, want %+v", report.NewsLinks, want)
	}
}

func TestParseReport_SummaryStopsAtNextSection(t *testing.T) {
	t.Parallel()

	text := MarkerESGSummary + "\n첫 줄\n둘째 줄\n\n📰 [관련 기사 목록]\n"
	report := ParseReport(text)
	if report.Summary != "첫 줄\n둘째 줄" {
		t.Fatalf("summary = %q", report.Summary)
	}
	if report.Empty {
		t.Fatal("report with a summary should not be empty")
	}
}

func TestParseReport_MissingMarkersYieldEmpty(t *testing.T) {
	t.Parallel()

	report := ParseReport("분석 결과를 생성하지 못했습니다.\n1. 🏢 삼성전자\n📌 추천 이유: 마커 없이 나열됨")
	if !report.Empty {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if len(report.Companies) != 0 {
		t.Fatalf("companies outside the recommendations section must be ignored: %+v", report.Companies)
	}
}

func TestParseReport_SentinelMarksEmpty(t *testing.T) {
	t.Parallel()

	for _, sentinel := range noContentSentinels {
		text := SampleReport(sampleRequest()) + "\n" + sentinel
		report := ParseReport(text)
		if !report.Empty {
			t.Fatalf("expected sentinel %q to mark the report empty", sentinel)
		}
		if len(report.Companies) != 3 {
			t.Fatalf("structured content should still be parsed, got %d companies", len(report.Companies))
		}
	}
}

func TestParseReport_IsDeterministic(t *testing.T) {
	t.Parallel()

	text := SampleReport(sampleRequest())
	first := ParseReport(text)
	second := ParseReport(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse results differ:\n%+v\n%+v", first, second)
	}
}

func TestParseReport_MalformedInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		MarkerRecommendations,
		MarkerNews,
		"1.",
		"1. 🏢",
		MarkerRecommendations + "12. 🏢",
		MarkerNews + "\n1. 📄 제목\n🔗 ",
		MarkerNews + "\n1. 📄 제목\n🔗 https://",
		MarkerRecommendations + "\n1. 🏢 A\n" + MarkerFinancials + "x\n" + MarkerReason + " 이유",
		"\xff\xfe" + MarkerESGSummary,
	}
	for _, input := range inputs {
		_ = ParseReport(input)
	}
}

func TestSplitAtOrdinals(t *testing.T) {
	t.Parallel()

	got := splitAtOrdinals("머리말 1. 🏢 가\n내용\n10.\t🏢 나 2.🏢 다", IconCompany)
	want := []string{"머리말 ", "가\n내용\n", "나 2.🏢 다"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTrimSeparators(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"매출 10조\n---\n":                    "매출 10조",
		"이익률 5% — ":                        "이익률 5%",
		"매출 10조\n=====\n____\n":            "매출 10조",
		"값: 3, ;":                          "값: 3, ;",
		"영업이익률 **12%**":                    "영업이익률 **12%**",
		"- URL: https://ir.example.com/\n": "- URL: https://ir.example.com/",
		"부채비율 | 150%":                      "부채비율 | 150%",
		"-":                                "",
		"===":                              "",
		"정상 문장입니다.":                        "정상 문장입니다.",
	}
	for input, want := range tests {
		if got := trimSeparators(input); got != want {
			t.Fatalf("trimSeparators(%q) = %q, want %q", input, got, want)
		}
	}
}
