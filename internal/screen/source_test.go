package screen

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/model"
)

func collect(t *testing.T, src *Source) ([]model.RawScreenEvent, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs := src.Events(ctx)
	var got []model.RawScreenEvent
	for ev := range events {
		got = append(got, ev)
	}
	return got, <-errs
}

func TestSource_Events(t *testing.T) {
	input := strings.Join([]string{
		`{"sourceAppId":"com.tencent.mm","screenText":"支付成功 ¥20.00","observedAt":"2026-01-02T03:04:05Z"}`,
		``,
		`not json`,
		`{"screenText":"no app id"}`,
		`{"sourceAppId":"com.tencent.mm","root":{"text":"微信转账","children":[{"text":"¥50.00"}]}}`,
	}, "\n")

	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	src := NewSource(strings.NewReader(input), nil)
	src.now = func() time.Time { return fixed }

	got, err := collect(t, src)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "支付成功 ¥20.00", got[0].ScreenText)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), got[0].ObservedAt)

	assert.Equal(t, fixed, got[1].ObservedAt, "missing timestamps default to arrival time")
	require.NotNil(t, got[1].Root)
	assert.Equal(t, "微信转账 ¥50.00 ", EventText(got[1]))
}

func TestSource_CanceledContext(t *testing.T) {
	src := NewSource(strings.NewReader(`{"sourceAppId":"a","screenText":"x"}`+"\n"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, errs := src.Events(ctx)
	for range events {
	}
	// Either the event raced through before cancellation was observed or the
	// source reported the cancellation.
	if err := <-errs; err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestDecodeTree(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		root, err := DecodeTree([]byte("text: 支付成功\nchildren:\n  - label: 商户\n  - text: ¥20.00\n"))
		require.NoError(t, err)
		assert.Equal(t, "支付成功 商户 ¥20.00 ", Flatten(root))
	})

	t.Run("json", func(t *testing.T) {
		root, err := DecodeTree([]byte(`{"text":"a","children":[{"label":"b"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "a b ", Flatten(root))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := DecodeTree([]byte("text: [unterminated"))
		assert.Error(t, err)
	})
}
