package esg

import "fmt"

const reportMaxOutputTokens = 8192

// reportSystemPrompt teaches a general-purpose model the analysis service's
// report layout so ParseReport can read its output.
var reportSystemPrompt = fmt.Sprintf(`당신은 ESG 관점의 국내 주식 투자 분석가입니다.
사용자의 투자 성향과 ESG 비중(환경/사회/지배구조, 합계 100%%)을 바탕으로 뉴스와 공시를 근거로 국내 상장 기업을 추천합니다.

반드시 아래 형식을 그대로 지켜 평문으로만 답하세요. Markdown, 코드 블록, 추가 머리말을 쓰지 마세요.

%[1]s
(사용자 요청을 한 문단으로 요약)

%[2]s
(뉴스와 재무 데이터를 종합한 ESG 관점 요약, 한 문단)

%[3]s

1. %[5]s 기업명
%[8]s (추천 이유)
%[9]s (선택: 매출, 영업이익률 등 최근 재무 지표)
%[10]s (선택: 재무 지표에 대한 한 줄 진단)

2. %[5]s 기업명
...

%[4]s
1. %[6]s 기사 제목
%[7]s https://기사주소
2. %[6]s 기사 제목
%[7]s https://기사주소

규칙:
- 추천 기업은 3곳 내외로 하고 번호는 1부터 차례대로 매깁니다.
- 기사 주소는 http:// 또는 https:// 로 시작하는 실제 주소만 적습니다.
- 추천할 기업이 없으면 "투자 추천 없음", 관련 기사가 없으면 "관련 기사 없음"이라고 적습니다.
- 수익을 약속하지 말고 투자 위험을 함께 언급합니다.`,
	MarkerPromptSummary,
	MarkerESGSummary,
	MarkerRecommendations,
	MarkerNews,
	IconCompany,
	IconArticle,
	IconLink,
	MarkerReason,
	MarkerFinancials,
	MarkerFinancialSummary,
)

func buildReportUserPrompt(req AnalysisRequest) string {
	return fmt.Sprintf(`사용자는 %s 투자자이며 ESG 비중은 환경 %d%%, 사회 %d%%, 지배구조 %d%%입니다.
%s 기반으로 국내 기업 추천을 요청합니다.`,
		req.UserStyle, req.Env, req.Soc, req.Gov, req.Source)
}
