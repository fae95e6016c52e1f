package teams

import "github.com/allybot/goalwatch/internal/core/domain"

// Roster is the fixed set of watched clubs. Colors are 24-bit embed colors;
// crests point at the league's badge CDN.
var Roster = []domain.Team{
	{
		Name:    "Arsenal",
		Aliases: []string{"the arsenal", "the gunners"},
		Color:   0xFF0000,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t3.png",
	},
	{
		Name:    "Aston Villa",
		Aliases: []string{"villa"},
		Color:   0x95BFE5,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t7.png",
	},
	{
		Name:    "Bournemouth",
		Aliases: []string{"afc bournemouth", "the cherries"},
		Color:   0xDA291C,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t91.png",
	},
	{
		Name:    "Brentford",
		Aliases: []string{"the bees"},
		Color:   0xE30613,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t94.png",
	},
	{
		Name:    "Brighton",
		Aliases: []string{"brighton & hove albion", "brighton and hove albion", "the seagulls"},
		Color:   0x0057B8,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t36.png",
	},
	{
		Name:    "Chelsea",
		Aliases: []string{"the blues"},
		Color:   0x034694,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t8.png",
	},
	{
		Name:    "Crystal Palace",
		Aliases: []string{"palace", "the eagles"},
		Color:   0x1B458F,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t31.png",
	},
	{
		Name:    "Everton",
		Aliases: []string{"the toffees"},
		Color:   0x003399,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t11.png",
	},
	{
		Name:    "Fulham",
		Aliases: []string{"the cottagers"},
		Color:   0xFFFFFF,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t54.png",
	},
	{
		Name:    "Liverpool",
		Aliases: []string{"the reds"},
		Color:   0xC8102E,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t14.png",
	},
	{
		Name:    "Manchester City",
		Aliases: []string{"man city"},
		Color:   0x6CABDD,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t43.png",
	},
	{
		Name:    "Manchester United",
		Aliases: []string{"man united", "man utd"},
		Color:   0xDA291C,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t1.png",
	},
	{
		Name:    "Newcastle United",
		Aliases: []string{"newcastle", "the magpies"},
		Color:   0x241F20,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t4.png",
	},
	{
		Name:    "Nottingham Forest",
		Aliases: []string{"forest"},
		Color:   0xDD0000,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t17.png",
	},
	{
		Name:    "Tottenham",
		Aliases: []string{"tottenham hotspur", "spurs"},
		Color:   0x132257,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t6.png",
	},
	{
		Name:    "West Ham",
		Aliases: []string{"west ham united", "the hammers"},
		Color:   0x7A263A,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t21.png",
	},
	{
		Name:    "Wolves",
		Aliases: []string{"wolverhampton", "wolverhampton wanderers"},
		Color:   0xFDB913,
		Crest:   "https://resources.premierleague.com/premierleague/badges/t39.png",
	},
}
