package esg

// Section and sub-section markers of the analysis service's report vocabulary.
// Any deviation in the source text is treated as the marker being absent.
const (
	MarkerPromptSummary    = "📌 [프롬프트 요약]"
	MarkerESGSummary       = "📌 [ESG 요약 분석]"
	MarkerRecommendations  = "💡 [추천 투자 기업]"
	MarkerNews             = "📰 [관련 기사 목록]"
	MarkerReason           = "📌 추천 이유:"
	MarkerFinancials       = "📊 최근 주요 재무 지표:"
	MarkerFinancialSummary = "📈 재무 요약 진단:"

	IconCompany = "🏢"
	IconArticle = "📄"
	IconLink    = "🔗"
)

// Phrases the service emits when it had nothing to say for a section.
var noContentSentinels = []string{
	"사용자 요청 없음",
	"요약 분석 없음",
	"투자 추천 없음",
	"관련 기사 없음",
}

// Company is one recommended company, ranked in report order.
type Company struct {
	Rank             int    `json:"rank"`
	Name             string `json:"name"`
	Reason           string `json:"reason"`
	FinancialData    string `json:"financial_data,omitempty"`
	FinancialSummary string `json:"financial_summary,omitempty"`
}

// NewsLink is one related article.
type NewsLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Report is the structured form of an analysis report.
type Report struct {
	PromptSummary string     `json:"prompt_summary,omitempty"`
	Summary       string     `json:"summary"`
	Companies     []Company  `json:"companies"`
	NewsLinks     []NewsLink `json:"news_links"`
	// Empty is advisory: the view should show the "no result" state instead of
	// rendering partial content.
	Empty bool `json:"is_empty"`
}
