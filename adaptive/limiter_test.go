package adaptive

import (
	"testing"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/stretchr/testify/assert"
)

func TestAdjust(t *testing.T) {
	base := core.DefaultLimits()

	t.Run("scarce emails double the email limit", func(t *testing.T) {
		out := Adjust(base, core.Observed{EmailsFound: 4, SearchHits: 50})
		assert.Equal(t, base.EmailLimit*2, out.EmailLimit)
		assert.Equal(t, base.SearchLimit, out.SearchLimit)
	})

	t.Run("scarce hits grow search limit by half truncated", func(t *testing.T) {
		out := Adjust(base, core.Observed{EmailsFound: 5, SearchHits: 9})
		assert.Equal(t, base.SearchLimit*3/2, out.SearchLimit)
		assert.Equal(t, base.EmailLimit, out.EmailLimit)
	})

	t.Run("truncation not rounding", func(t *testing.T) {
		limits := base
		limits.SearchLimit = 15 // 15*1.5 = 22.5 -> 22
		out := Adjust(limits, core.Observed{EmailsFound: 5, SearchHits: 0})
		assert.Equal(t, 22, out.SearchLimit)
	})

	t.Run("unexpected phones bump phone limit", func(t *testing.T) {
		out := Adjust(base, core.Observed{EmailsFound: 5, SearchHits: 50, PhonesFound: 2})
		assert.Equal(t, base.PhoneLimit+2, out.PhoneLimit)
	})

	t.Run("phone input suppresses the phone bump", func(t *testing.T) {
		out := Adjust(base, core.Observed{EmailsFound: 5, SearchHits: 50, PhonesFound: 2, PhoneInput: true})
		assert.Equal(t, base.PhoneLimit, out.PhoneLimit)
	})

	t.Run("abundant yield leaves limits untouched", func(t *testing.T) {
		out := Adjust(base, core.Observed{EmailsFound: 5, SearchHits: 10})
		assert.Equal(t, base, out)
	})
}

func TestAdjust_Caps(t *testing.T) {
	limits := core.Limits{SearchLimit: 150, EmailLimit: 180, PhoneLimit: 14, Cap: 200}
	out := Adjust(limits, core.Observed{EmailsFound: 0, SearchHits: 0, PhonesFound: 1})

	assert.Equal(t, 200, out.EmailLimit, "email limit clamps to Cap")
	assert.Equal(t, 200, out.SearchLimit, "search limit clamps to Cap")
	assert.Equal(t, 15, out.PhoneLimit, "phone limit clamps to its own ceiling")
}

func TestAdjust_NeverDecreases(t *testing.T) {
	scenarios := []core.Observed{
		{},
		{EmailsFound: 100, SearchHits: 100, PhonesFound: 100},
		{EmailsFound: 0, SearchHits: 0, PhonesFound: 0, PhoneInput: true},
	}
	for _, obs := range scenarios {
		out := Adjust(core.DefaultLimits(), obs)
		assert.GreaterOrEqual(t, out.SearchLimit, core.DefaultLimits().SearchLimit)
		assert.GreaterOrEqual(t, out.EmailLimit, core.DefaultLimits().EmailLimit)
		assert.GreaterOrEqual(t, out.SocialLimit, core.DefaultLimits().SocialLimit)
		assert.GreaterOrEqual(t, out.PhoneLimit, core.DefaultLimits().PhoneLimit)
	}
}

func TestAdjust_PureInputUnchanged(t *testing.T) {
	in := core.DefaultLimits()
	snapshot := in
	_ = Adjust(in, core.Observed{EmailsFound: 0, SearchHits: 0, PhonesFound: 1})
	assert.Equal(t, snapshot, in)
}
