package esg

import (
	"context"
	"fmt"
)

// sampleGenerator returns a fixed report in the service's format with the
// request's inputs filled in. It lets the questionnaire run without an upstream.
type sampleGenerator struct{}

func (sampleGenerator) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}
	return Generation{Model: ProviderSample, Content: SampleReport(req)}, nil
}

// SampleReport renders the demo report for req.
func SampleReport(req AnalysisRequest) string {
	return fmt.Sprintf(`%s
사용자는 %s 투자자이며 ESG 비중이 환경 %d%%, 사회 %d%%, 지배구조 %d%%입니다. %s 기반으로 국내 기업 추천을 요청하였습니다.

%s
뉴스와 재무 데이터를 분석한 결과, ESG 측면에서 긍정적인 영향을 미치는 기업들이 다수 확인됩니다. 특히, 친환경 기술 개발 및 재활용, 사회적 책임 프로젝트, 그리고 투명한 경영 구조와 관련된 활동들이 두드러집니다. 이러한 활동들은 기업의 지속 가능성과 재무 안정성에 긍정적인 영향을 미치며, 투자 매력을 높입니다.

%s

1. 🏢 이닉스
%s 이닉스는 전기차 및 2차전지 안전 솔루션 분야에서 선도적인 기술을 보유하고 있으며, 배터리 화재 예방과 관련된 혁신적인 제품으로 시장에서의 경쟁력을 갖추고 있습니다. ESG 관점에서 배터리 안전성 강화는 매우 중요한 요소이며, 이닉스는 이를 충족합니다. 재무적으로도 매출 증가와 함께 이익률 개선이 기대됩니다.

2. 🏢 엘앤에프
%s 엘앤에프는 양극재 분야에서 글로벌 경쟁력을 보유하고 있으며, 폐기물 매립 제로(ZWTL) 플래티넘 등급을 3년 연속 달성하는 등 환경 친화적 경영을 실천하고 있습니다. ESG 관점에서 매우 긍정적인 평가를 받으며, 재무적으로도 안정적인 수익을 창출하고 있습니다.

3. 🏢 삼성SDI
%s 삼성SDI는 전기차 배터리 및 ESS(에너지저장시스템) 분야에서 글로벌 선도 기업으로, 친환경 에너지 솔루션을 통해 탄소 중립에 기여하고 있습니다. 지속적인 R&D 투자와 함께 사회적 책임 경영을 실천하고 있어 높은 ESG 점수를 기록하고 있습니다.

%s
1. 📄 이닉스, 전기차 배터리 안전 솔루션 선도 기업
🔗 http://www.finomy.com/news/articleView.html?idxno=234780
2. 📄 엘앤에프, 폐기물 매립 제로(ZWTL) 플래티넘 등급 획득
🔗 https://www.cstimes.com/news/articleView.html?idxno=658604
3. 📄 삼성SDI, 친환경 배터리 기술 혁신으로 ESG 경영 선도
🔗 https://www.etnews.com/news/articleView.html?idxno=2024010100001`,
		MarkerPromptSummary,
		req.UserStyle, req.Env, req.Soc, req.Gov, req.Source,
		MarkerESGSummary,
		MarkerRecommendations,
		MarkerReason,
		MarkerReason,
		MarkerReason,
		MarkerNews,
	)
}
