// Package vocab holds the fixed label sets used by recruit evaluations.
//
// Grades are ordered best first; the leading integer of a grade label is its
// tier. Tier 8 (watchlist) means "not yet placed in a tier" and never counts
// toward averages.
package vocab

import (
	"slices"
	"strconv"
	"strings"
)

// Tier bounds.
const (
	MinTier       = 1
	MaxRankedTier = 7
	WatchlistTier = 8
)

// MaxStrengths caps the number of strengths a single submission may carry.
const MaxStrengths = 3

// Grades lists every grade label, index i holding tier i+1.
var Grades = []string{
	"1 - Early Impact",
	"2 - Early Contributor",
	"3 - Year 2 Contributor",
	"4 - High Developmental",
	"5 - Medium Developmental",
	"6 - High End Depth",
	"7 - Depth",
	"8 - Watchlist",
}

// Strengths is the strength vocabulary offered on the evaluation form.
var Strengths = []string{
	"Arm Strength", "Deep Accuracy", "Explosiveness", "Long Speed", "Change of Direction",
	"Feel for the Game", "Quick Release", "Off Script", "Physicality", "Big Frame",
	"Playing Strength", "Ball Skills", "Route Running", "Vision/Patience", "Natural Hands Catcher",
	"RAC Ability", "Ball Tracking", "Bend/Flexibility", "Pass Rush Moves", "Contact Balance",
	"Ball Placement", "Elusiveness", "Position Versatility", "Low Pad Level", "Lateral Agility",
	"Block Finishes", "Zone Instincts", "Press Man", "Fluid Hips",
}

// Schools is the list of predicted-school choices.
var Schools = []string{
	"Akron", "Alabama", "Appalachian State", "Arizona", "Arkansas State", "Arizona State", "Arkansas", "Auburn",
	"Ball State", "Baylor", "Boise State", "Boston College", "Bowling Green", "Buffalo", "BYU", "Cal", "CMU",
	"Charlotte", "Cincinatti", "Clemson", "Coastal Carolina", "Colorado", "Colorado State", "Duke", "ECU", "EMU",
	"FAU", "FIU", "Florida", "Florida State", "Fresno State", "UGA", "Georgia Southern", "Georgia State",
	"Georgia Tech", "Hawaii", "Houston", "Illinois", "Indiana", "Iowa", "Iowa State", "Kansas", "Kansas State",
	"Kent State", "Kentucky", "Liberty", "Louisiana", "Louisiana-Monroe", "Lousiana Tech", "LSU", "Marshall",
	"Maryland", "Memphis", "Miami (FL)", "Miami (OH)", "Michigan", "Michigan State", "Middle Tennessee",
	"Minnesota", "Mississippi State", "Missouri", "NC State", "Nebraska", "Nevada", "New Mexico",
	"New Mexico State", "North Carolina", "North Texas", "Northern Illinois", "Northwestern", "Notre Dame",
	"Ohio", "Ohio State", "Oklahoma", "Oklahoma State", "Old Dominion", "Ole Miss", "Oregon", "Oregon State",
	"Penn State", "Pittsburgh", "Purdue", "Rice", "Rutgers", "San Diego State", "San Jose State", "SMU",
	"South Alabama", "South Carolina", "South Florida", "Southern Miss", "Stanford", "Syracuse", "TCU", "Temple",
	"Tennessee", "Texas", "Texas A&M", "Texas State", "Texas Tech", "Toledo", "Troy", "Tulane", "Tulsa", "UAB",
	"UCF", "UCLA", "Uconn", "Umass", "UNLV", "USC", "UTEP", "UTSA", "Utah", "Utah State", "Vanderbilt",
	"Virginia", "Virginia Tech", "Wake Forest", "Washington", "Washington State", "West Virginia",
	"Western Kentucky", "Western Michigan", "Wisconsin", "Wyoming",
}

// GradeLabel returns the label for tier n.
func GradeLabel(n int) (string, bool) {
	if n < MinTier || n > len(Grades) {
		return "", false
	}
	return Grades[n-1], true
}

// LeadingInt parses the first space-separated token of label as an integer.
func LeadingInt(label string) (int, bool) {
	token, _, _ := strings.Cut(strings.TrimSpace(label), " ")
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RankedTier returns the tier of a grade label when it counts toward an
// average: tiers 1 through 7. Watchlist, absent and malformed labels report false.
func RankedTier(label string) (int, bool) {
	n, ok := LeadingInt(label)
	if !ok || n < MinTier || n > MaxRankedTier {
		return 0, false
	}
	return n, true
}

// IsGrade reports whether label is one of the fixed grade labels.
func IsGrade(label string) bool { return slices.Contains(Grades, label) }

// IsStrength reports whether label is in the strength vocabulary.
func IsStrength(label string) bool { return slices.Contains(Strengths, label) }

// IsSchool reports whether label is in the school list.
func IsSchool(label string) bool { return slices.Contains(Schools, label) }
