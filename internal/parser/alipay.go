package parser

import "github.com/Veraticus/autobill/internal/model"

// AlipayAppID is the package name of the Alipay app.
const AlipayAppID = "com.eg.android.AlipayGphone"

// SceneIncoming covers Alipay collections and received transfers.
const SceneIncoming = "incoming"

// AlipayParser recognizes Alipay payment, transfer and collection results.
type AlipayParser struct {
	appID string
}

// NewAlipayParser creates a parser bound to the Alipay app id.
func NewAlipayParser() *AlipayParser {
	return &AlipayParser{appID: AlipayAppID}
}

// Name implements BillParser.
func (p *AlipayParser) Name() string { return "alipay" }

// Parse implements BillParser.
func (p *AlipayParser) Parse(sourceAppID, text string) (model.CandidateBill, bool) {
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
	case containsAny(text, "支付成功", "付款成功") && containsAny(text, "收款方", "商家"):
		bill.Direction = model.DirectionExpense
		bill.Scene = SceneMerchantPayment
	case containsAny(text, "转账成功"):
		bill.Direction = model.DirectionExpense
		bill.Scene = SceneTransfer
	case containsAny(text, "收款成功", "已收款", "到账成功"):
		bill.Direction = model.DirectionIncome
		bill.Scene = SceneIncoming
	default:
		return model.CandidateBill{}, false
	}

	return bill, true
}
