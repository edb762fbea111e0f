package config

import "github.com/rl1809/prize-roulette/internal/core/domain"

var presets = map[string][]domain.PrizeDefinition{
	"classic": {
		{Kind: "capri", Label: "카프리선", BaseWeight: 20, Limited: true, InitialStock: 20},
		{Kind: "snack", Label: "간식(초콜릿)", BaseWeight: 75, Fallback: true},
		{Kind: "baemin", Label: "배달의민족 1만원권", BaseWeight: 3, Limited: true, InitialStock: 3},
		{Kind: "cgv", Label: "CGV 관람권", BaseWeight: 2, Limited: true, InitialStock: 1},
	},
	"lose": {
		{Kind: "capri", Label: "카프리선", BaseWeight: 20, Limited: true, InitialStock: 20},
		{Kind: "snack", Label: "간식(초콜릿)", BaseWeight: 45},
		{Kind: "baemin", Label: "배달의민족 1만원권", BaseWeight: 3, Limited: true, InitialStock: 3},
		{Kind: "lose", Label: "꽝", BaseWeight: 32, Fallback: true},
	},
}

// Presets lists the built-in catalog names.
func Presets() []string {
	return []string{"classic", "lose"}
}
