package parser

import "github.com/Veraticus/autobill/internal/model"

// WeChatAppID is the package name of the WeChat app.
const WeChatAppID = "com.tencent.mm"

// WeChat scenes.
const (
	SceneMerchantPayment = "merchant_payment"
	SceneTransfer        = "transfer"
)

// WeChatParser recognizes WeChat Pay merchant payments and peer transfers.
type WeChatParser struct {
	appID string
}

// NewWeChatParser creates a parser bound to the WeChat app id.
func NewWeChatParser() *WeChatParser {
	return &WeChatParser{appID: WeChatAppID}
}

// Name implements BillParser.
func (p *WeChatParser) Name() string { return "wechat" }

// Parse implements BillParser.
func (p *WeChatParser) Parse(sourceAppID, text string) (model.CandidateBill, bool) {
	if sourceAppID != p.appID {
		return model.CandidateBill{}, false
	}

	amount, ok := ExtractAmount(text)
	if !ok {
		return model.CandidateBill{}, false
	}

	bill := model.CandidateBill{
		Amount:       amount,
		EvidenceText: text,
		SourceAppID:  sourceAppID,
	}

	switch {
	case containsAny(text, "支付成功") && containsAny(text, "收款方", "商户"):
		bill.Direction = model.DirectionExpense
		bill.Scene = SceneMerchantPayment
	case containsAny(text, "转账") && containsAny(text, "已存入零钱", "转账给朋友"):
		bill.Direction = model.DirectionExpense
		if containsAny(text, "已存入零钱", "已收款") {
			bill.Direction = model.DirectionIncome
		}
		bill.Scene = SceneTransfer
	default:
		return model.CandidateBill{}, false
	}

	return bill, true
}
