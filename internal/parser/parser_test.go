package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/model"
)

type stubParser struct {
	bill  model.CandidateBill
	name  string
	calls int
	match bool
}

func (s *stubParser) Name() string { return s.name }

func (s *stubParser) Parse(_, _ string) (model.CandidateBill, bool) {
	s.calls++
	return s.bill, s.match
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	first := &stubParser{name: "first"}
	second := &stubParser{name: "second", match: true, bill: model.CandidateBill{Scene: "second"}}
	third := &stubParser{name: "third", match: true, bill: model.CandidateBill{Scene: "third"}}

	reg := NewRegistry(first, second, third)
	bill, ok := reg.Parse("app", "text")

	require.True(t, ok)
	assert.Equal(t, "second", bill.Scene)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls, "parsers after the first match must not run")
}

func TestRegistry_NoMatch(t *testing.T) {
	reg := NewRegistry(&stubParser{name: "a"}, &stubParser{name: "b"})
	_, ok := reg.Parse("app", "text")
	assert.False(t, ok)

	_, ok = NewRegistry().Parse("app", "text")
	assert.False(t, ok)
}

func TestRegistryFromNames(t *testing.T) {
	reg, err := RegistryFromNames([]string{"Alipay", " wechat "})
	require.NoError(t, err)
	parsers := reg.Parsers()
	require.Len(t, parsers, 2)
	assert.Equal(t, "alipay", parsers[0].Name())
	assert.Equal(t, "wechat", parsers[1].Name())

	reg, err = RegistryFromNames(nil)
	require.NoError(t, err)
	assert.Len(t, reg.Parsers(), 2)

	_, err = RegistryFromNames([]string{"unionpay"})
	assert.Error(t, err)
}

func TestWeChatParser(t *testing.T) {
	p := NewWeChatParser()

	tests := []struct {
		name      string
		appID     string
		text      string
		amount    string
		direction model.Direction
		scene     string
		wantOK    bool
	}{
		{
			name:      "merchant payment with 商户",
			appID:     WeChatAppID,
			text:      "支付成功 商户 瑞幸咖啡 ¥20.00 完成",
			amount:    "20",
			direction: model.DirectionExpense,
			scene:     SceneMerchantPayment,
			wantOK:    true,
		},
		{
			name:      "merchant payment with 收款方",
			appID:     WeChatAppID,
			text:      "¥35.50 支付成功 收款方 美团",
			amount:    "35.5",
			direction: model.DirectionExpense,
			scene:     SceneMerchantPayment,
			wantOK:    true,
		},
		{
			name:      "received transfer",
			appID:     WeChatAppID,
			text:      "微信转账 ¥50.00 已存入零钱",
			amount:    "50",
			direction: model.DirectionIncome,
			scene:     SceneTransfer,
			wantOK:    true,
		},
		{
			name:      "outgoing transfer",
			appID:     WeChatAppID,
			text:      "转账 转账给朋友 ¥88.00 待对方确认",
			amount:    "88",
			direction: model.DirectionExpense,
			scene:     SceneTransfer,
			wantOK:    true,
		},
		{
			name:      "outgoing transfer later confirmed received",
			appID:     WeChatAppID,
			text:      "转账 转账给朋友 ¥88.00 已收款",
			amount:    "88",
			direction: model.DirectionIncome,
			scene:     SceneTransfer,
			wantOK:    true,
		},
		{
			name:   "wrong app",
			appID:  AlipayAppID,
			text:   "支付成功 商户 ¥20.00",
			wantOK: false,
		},
		{
			name:   "no amount",
			appID:  WeChatAppID,
			text:   "支付成功 商户 瑞幸咖啡",
			wantOK: false,
		},
		{
			name:   "unknown scene",
			appID:  WeChatAppID,
			text:   "朋友圈 ¥20.00",
			wantOK: false,
		},
		{
			name:   "success without payee",
			appID:  WeChatAppID,
			text:   "支付成功 ¥20.00",
			wantOK: false,
		},
		{
			name:   "transfer without settlement marker",
			appID:  WeChatAppID,
			text:   "微信转账 ¥20.00",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, ok := p.Parse(tt.appID, tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.amount, bill.Amount.String())
			assert.Equal(t, tt.direction, bill.Direction)
			assert.Equal(t, tt.scene, bill.Scene)
			assert.Equal(t, tt.text, bill.EvidenceText)
			assert.Equal(t, tt.appID, bill.SourceAppID)
		})
	}
}

func TestAlipayParser(t *testing.T) {
	p := NewAlipayParser()

	tests := []struct {
		name      string
		text      string
		direction model.Direction
		wantOK    bool
	}{
		{name: "payment", text: "付款成功 商家 全家便利店 ￥12.80", direction: model.DirectionExpense, wantOK: true},
		{name: "transfer", text: "转账成功 ¥100.00", direction: model.DirectionExpense, wantOK: true},
		{name: "collection", text: "收款成功 ¥66.66", direction: model.DirectionIncome, wantOK: true},
		{name: "no scene", text: "余额宝 ¥10.00", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, ok := p.Parse(AlipayAppID, tt.text)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.direction, bill.Direction)
			}
		})
	}

	_, ok := p.Parse(WeChatAppID, "收款成功 ¥66.66")
	assert.False(t, ok)
}

func TestParsers_RejectTextWithoutTwoDecimalAmount(t *testing.T) {
	texts := []string{
		"支付成功 商户 ¥20",
		"支付成功 商户 20.00",
		"微信转账 已存入零钱 ¥50.5",
		"收款成功 ￥7",
	}
	reg := DefaultRegistry()
	for _, text := range texts {
		for _, app := range []string{WeChatAppID, AlipayAppID} {
			_, ok := reg.Parse(app, text)
			assert.False(t, ok, "app=%s text=%q", app, text)
		}
	}
}
