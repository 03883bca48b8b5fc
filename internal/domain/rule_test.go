package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Matches(t *testing.T) {
	assetGroup := EntityRecord{
		Kind:       EntityKindAssetGroup,
		Name:       "Summer SALE 2026",
		ParentName: "PMax DE",
	}
	campaign := EntityRecord{
		Kind: EntityKindCampaign,
		Name: "DG Sale DE",
	}

	tests := []struct {
		name    string
		matcher Matcher
		record  EntityRecord
		want    bool
	}{
		{
			name:    "Contains casa por substring ignorando caixa",
			matcher: Contains("sale"),
			record:  assetGroup,
			want:    true,
		},
		{
			name:    "Contains não casa quando a substring está ausente",
			matcher: Contains("black friday"),
			record:  assetGroup,
			want:    false,
		},
		{
			name:    "Contains com texto vazio nunca casa",
			matcher: Contains(""),
			record:  assetGroup,
			want:    false,
		},
		{
			name:    "ExactPair casa o asset group pelo par campanha/asset group",
			matcher: ExactPair("PMax DE", "Summer SALE 2026"),
			record:  assetGroup,
			want:    true,
		},
		{
			name:    "ExactPair não casa o asset group de outra campanha",
			matcher: ExactPair("PMax AT", "Summer SALE 2026"),
			record:  assetGroup,
			want:    false,
		},
		{
			name:    "ExactPair sem asset group casa a própria campanha",
			matcher: ExactPair("DG Sale DE", ""),
			record:  campaign,
			want:    true,
		},
		{
			name:    "ExactPair com asset group não casa uma campanha",
			matcher: ExactPair("DG Sale DE", "Qualquer"),
			record:  campaign,
			want:    false,
		},
		{
			name:    "Matcher sem tipo nunca casa",
			matcher: Matcher{Text: "sale"},
			record:  assetGroup,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.Matches(tt.record))
		})
	}
}

func TestParseToggleMode(t *testing.T) {
	mode, err := ParseToggleMode("start")
	require.NoError(t, err)
	assert.Equal(t, ToggleModeStart, mode)

	mode, err = ParseToggleMode("end")
	require.NoError(t, err)
	assert.Equal(t, ToggleModeEnd, mode)

	_, err = ParseToggleMode("toggle")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestParseSalePhase(t *testing.T) {
	for _, phase := range []string{"start_sale", "two_days_before", "last_day", "end_sale"} {
		parsed, err := ParseSalePhase(phase)
		require.NoError(t, err)
		assert.Equal(t, SalePhase(phase), parsed)
	}

	_, err := ParseSalePhase("mid_sale")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRunRequest_WantsAccount(t *testing.T) {
	empty := &RunRequest{}
	assert.True(t, empty.WantsAccount("1111111111"))

	scoped := &RunRequest{AccountIDs: []string{"1111111111", "2222222222"}}
	assert.True(t, scoped.WantsAccount("2222222222"))
	assert.False(t, scoped.WantsAccount("3333333333"))
}

func TestManagedAccount_Location(t *testing.T) {
	berlin := ManagedAccount{Timezone: "Europe/Berlin"}
	assert.Equal(t, "Europe/Berlin", berlin.Location().String())

	// Fuso vazio ou inválido cai em UTC, nunca no fuso do processo
	assert.Equal(t, "UTC", ManagedAccount{}.Location().String())
	assert.Equal(t, "UTC", ManagedAccount{Timezone: "Mars/Olympus"}.Location().String())
}
