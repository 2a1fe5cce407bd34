package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Name(t *testing.T) {
	n := MustNew()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only punctuation", " - ", ""},
		{"plain", "Flamengo", "flamengo"},
		{"club prefix folds by containment", "CR Flamengo", "flamengo"},
		{"multi word alias", "Vasco da Gama", "vasco"},
		{"accents stripped", "São Paulo", "saopaulo"},
		{"nickname", "Mengão", "flamengo"},
		{"short alias exact", "Real", "realmadrid"},
		{"short alias not contained", "Real Betis", "realbetis"},
		{"exact only alias", "Newcastle United", "newcastleunited"},
		{"joiner removed", "Atlético de Madrid", "atleticomadrid"},
		{"suffix folds", "Santos FC", "santos"},
		{"prefix folds", "SE Palmeiras", "palmeiras"},
		{"unknown team kept", "Deportivo Cali", "deportivocali"},
		{"longest alias wins", "Sport Club Internacional", "internacional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Name(tt.in))
		})
	}
}

func TestNormalizer_NameIsIdempotent(t *testing.T) {
	n := MustNew()
	inputs := []string{
		"Flamengo", "CR Flamengo", "Vasco da Gama", "Grêmio", "Manchester City",
		"Paris Saint-Germain", "Inter", "Internacional", "Deportivo Cali", "",
		"Atlético Mineiro", "Red Bull Bragantino", "Olympique de Marseille",
	}
	for _, in := range inputs {
		once := n.Name(in)
		assert.Equal(t, once, n.Name(once), "normalize(normalize(%q))", in)
	}
}

func TestNormalizer_Venue(t *testing.T) {
	n := MustNew()

	assert.Equal(t, "allianzparque", n.Venue("Allianz Parque"))
	assert.Equal(t, "maracana", n.Venue("Estádio Maracanã"))
	assert.Equal(t, "corinthians", n.Venue("Arena Corinthians"))
	assert.Equal(t, "anfield", n.Venue("Anfield Stadium"))
	assert.Equal(t, "", n.Venue(""))
	assert.Equal(t, n.Venue("Estadio do Morumbi"), n.Venue(n.Venue("Estadio do Morumbi")))
}

func TestNew_RejectsConflictingAliases(t *testing.T) {
	_, err := New(Table{Teams: map[string][]string{"fluminense": {"mengao"}}})
	require.Error(t, err)

	n, err := New(Table{Teams: map[string][]string{"cuiaba": {"dourado"}}})
	require.NoError(t, err)
	assert.Equal(t, "cuiaba", n.Name("Dourado"))
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte("teams:\n  remo: [clubedoremo]\nvenue_words: [estadio]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"clubedoremo"}, table.Teams["remo"])
	assert.Equal(t, []string{"estadio"}, table.VenueWords)

	_, err = ParseTable([]byte("teams: [unclosed"))
	assert.Error(t, err)
}

func TestCleanTeamName(t *testing.T) {
	assert.Equal(t, "Bahia", CleanTeamName("Esporte Clube Bahia"))
	assert.Equal(t, "Vasco da Gama", CleanTeamName("Vasco da Gama"))
	assert.Equal(t, "Atlético Madrid", CleanTeamName("Atlético de Madrid"))
	assert.Equal(t, "Recife", CleanTeamName("Sport Club Recife"))
	assert.Equal(t, "Paysandu", CleanTeamName("Paysandu Sport Club"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "brasileirao-serie-a", Slug("Brasileirão Série A"))
	assert.Equal(t, "atletico-mg", Slug("  Atlético-MG  "))
	assert.Equal(t, "", Slug("--"))
}
