package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		wantNames   []string
		wantUnknown []string
	}{
		{"empty", nil, []string{}, nil},
		{"known names", []string{"GetPubArticle", "FindTag"}, []string{"FindTag", "GetPubArticle"}, nil},
		{"duplicates collapse", []string{"RateArticle", "RateArticle"}, []string{"RateArticle"}, nil},
		{"unknown ignored", []string{"Admin", "CreateComment"}, []string{"CreateComment"}, []string{"Admin"}},
		{"case sensitive", []string{"createarticle"}, []string{}, []string{"createarticle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, unknown := ParseSet(tt.input)
			assert.Equal(t, tt.wantNames, set.Names())
			assert.Equal(t, tt.wantUnknown, unknown)
		})
	}
}

func TestSetMembershipOnly(t *testing.T) {
	a := NewSet(GetAnyArticle, GetPubArticle)
	b := NewSet(GetPubArticle, GetAnyArticle, GetPubArticle)

	assert.Equal(t, a.Names(), b.Names())
	assert.Equal(t, 2, b.Len())
	// Any 不隐含 Pub / Self
	assert.False(t, NewSet(GetAnyArticle).Has(GetSelfArticle))
	// 零值集合可用
	var zero Set
	assert.False(t, zero.Has(CreateArticle))
	assert.Equal(t, 0, zero.Len())
}

func TestVocabulary(t *testing.T) {
	assert.Len(t, All, 21)
	for _, p := range All {
		assert.True(t, IsKnown(p), p)
	}
	assert.False(t, IsKnown("DropDatabase"))
}

func TestParseUserState(t *testing.T) {
	for _, s := range []string{"Active", "NotVerify", "Banned", "Deleted"} {
		state, err := ParseUserState(s)
		assert.NoError(t, err)
		assert.Equal(t, UserState(s), state)
	}
	_, err := ParseUserState("active")
	assert.Error(t, err)
}
