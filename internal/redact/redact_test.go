package redact

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/model"
)

func TestRedactor_Redact(t *testing.T) {
	r := New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short text unchanged",
			input: "支付成功 商户 瑞幸咖啡 ¥20.00",
			want:  "支付成功 商户 瑞幸咖啡 ¥20.00",
		},
		{
			name:  "mobile number masked",
			input: "收款方 13812345678 ¥20.00",
			want:  "收款方 " + PhoneMask + " ¥20.00",
		},
		{
			name:  "mobile number inside longer digit run",
			input: "订单号 9913912345678 ¥1.00",
			want:  "订单号 99" + PhoneMask + " ¥1.00",
		},
		{
			name:  "non mobile digits kept",
			input: "订单号 12012345678 ¥1.00",
			want:  "订单号 12012345678 ¥1.00",
		},
		{
			name:  "outgoing transfer counterparty",
			input: "转给张三的转账 ¥50.00",
			want:  "转给" + CounterpartyMask + "的转账 ¥50.00",
		},
		{
			name:  "outgoing red packet counterparty",
			input: "转账给李四红包 ¥8.88",
			want:  "转账给" + CounterpartyMask + "红包 ¥8.88",
		},
		{
			name:  "incoming transfer counterparty",
			input: "收到王五的转账 ¥50.00 已存入零钱",
			want:  "收到" + CounterpartyMask + "的转账 ¥50.00 已存入零钱",
		},
		{
			name:  "english transfer",
			input: "Transfer to Alice Smith transfer ¥5.00",
			want:  "Transfer to " + CounterpartyMask + " transfer ¥5.00",
		},
		{
			name:  "english received",
			input: "Received Bob's red packet ¥6.66",
			want:  "Received " + CounterpartyMask + "'s red packet ¥6.66",
		},
		{
			name:  "verb without counterparty kept",
			input: "微信转账 转账给朋友 ¥88.00",
			want:  "微信转账 转账给朋友 ¥88.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Redact(tt.input).Text)
		})
	}
}

func TestRedactor_LongTextWindowsAroundCurrency(t *testing.T) {
	prefix := strings.Repeat("前", 300)
	suffix := strings.Repeat("后", 300)
	input := prefix + "¥20.00" + suffix

	got := New().Redact(input).Text

	assert.Equal(t, 100, utf8.RuneCountInString(got))
	assert.Contains(t, got, "¥20.00")
	idx := strings.Index(got, "¥")
	assert.Equal(t, 50, utf8.RuneCountInString(got[:idx]), "marker is centered")
}

func TestRedactor_LongTextMarkerNearStart(t *testing.T) {
	input := "¥9.90" + strings.Repeat("x", 400)
	got := New().Redact(input).Text

	assert.True(t, strings.HasPrefix(got, "¥9.90"))
	assert.Equal(t, 100, utf8.RuneCountInString(got))
}

func TestRedactor_LongTextWithoutMarkerTruncates(t *testing.T) {
	input := strings.Repeat("字", 500)
	got := New().Redact(input).Text
	assert.Equal(t, model.MaxEvidenceRunes, utf8.RuneCountInString(got))
}

func TestRedactor_MediumTextTruncates(t *testing.T) {
	input := strings.Repeat("a", 180) + "¥1.00"
	got := New().Redact(input).Text
	assert.Equal(t, strings.Repeat("a", 150), got)
}

func TestRedactor_Properties(t *testing.T) {
	r := New()
	mobile := regexp.MustCompile(`1[3-9]\d{9}`)
	alphabet := []rune("0123456789138¥￥ 转给收到的转账红包支付成功abc")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := rng.Intn(600)
		buf := make([]rune, n)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		input := string(buf)

		got := r.Redact(input).Text
		require.LessOrEqual(t, utf8.RuneCountInString(got), model.MaxEvidenceRunes, "input %q", input)
		require.False(t, mobile.MatchString(got), "unmasked mobile number in %q", got)
		require.True(t, utf8.ValidString(got))
	}
}

func TestRedactor_Deterministic(t *testing.T) {
	input := "收到赵六的红包 13912345678 ¥66.00"
	assert.Equal(t, New().Redact(input), New().Redact(input))
}
