// Package features detects platform features mentioned in reply text.
package features

import "strings"

type keyword struct {
	trigger string
	feature string
}

// dictionary is evaluated in order; the first hit of a feature fixes its position in the result.
var dictionary = []keyword{
	{"love note", "Love Notes"},
	{"scheduled note", "Scheduled Love Notes"},
	{"ai content creator", "AI Content Creator"},
	{"content creator", "AI Content Creator"},
	{"poem", "AI Content Creator"},
	{"date idea", "Date Ideas"},
	{"date", "Date Ideas"},
	{"memory lane", "Memory Lane"},
	{"memory", "Memory Lane"},
	{"shared journal", "Shared Journals"},
	{"journal", "Shared Journals"},
	{"cooperative game", "Cooperative Games"},
	{"game", "Cooperative Games"},
	{"couples calendar", "Couples Calendar"},
	{"calendar", "Couples Calendar"},

	{"relationship goal", "Relationship Goals"},
	{"goal", "Relationship Goals"},
	{"milestone", "Milestones"},
	{"anniversary", "Milestones"},
	{"love language", "Love Language Quiz"},
	{"love language quiz", "Love Language Quiz"},
	{"relationship quiz", "Relationship Quizzes"},
	{"quiz", "Relationship Quizzes"},
	{"compatibility", "Relationship Quizzes"},
	{"couples dashboard", "Couples Dashboard"},
	{"dashboard", "Couples Dashboard"},
	{"progress tracking", "Progress Tracking"},
	{"progress", "Progress Tracking"},

	{"ai relationship coach", "AI Relationship Coach"},
	{"ai coach", "AI Relationship Coach"},
	{"relationship coach", "AI Relationship Coach"},
	{"coach", "AI Relationship Coach"},
	{"communication practice", "Communication Practice"},
	{"communication", "Communication Practice"},
	{"meditation", "Meditation"},
	{"mindfulness", "Meditation"},
	{"counseling", "Counseling Support"},
	{"therapy", "Counseling Support"},
	{"therapist", "Counseling Support"},
	{"podcast", "Podcasts"},
	{"article", "Articles"},
	{"influencer", "Influencers"},
	{"expert", "Influencers"},
	{"chat", "Chat System"},
	{"messaging", "Chat System"},

	{"community", "Community"},
	{"forum", "Community"},
	{"find friends", "Find Friends"},
	{"friends", "Find Friends"},
	{"buddy system", "Buddy System"},
	{"buddy", "Buddy System"},
	{"success story", "Success Stories"},
	{"story", "Success Stories"},
	{"leaderboard", "Leaderboard"},
	{"ranking", "Leaderboard"},
	{"contest", "Win a Cruise"},
	{"cruise", "Win a Cruise"},
	{"prize", "Win a Cruise"},

	{"achievement", "Achievements"},
	{"badge", "Achievements"},
	{"points", "Points System"},
	{"points system", "Points System"},
	{"premium feature", "Premium Features"},
	{"unlock", "Premium Features"},
	{"level", "Levels"},

	{"lgbtq", "LGBTQ+ Support"},
	{"lgbt", "LGBTQ+ Support"},
	{"diversity", "Diversity Section"},
	{"inclusive", "Diversity Section"},
}

// Extract returns the distinct feature names whose keywords occur in text, case-insensitively.
// The result is never nil.
func Extract(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	found := []string{}
	for _, kw := range dictionary {
		if _, ok := seen[kw.feature]; ok {
			continue
		}
		if strings.Contains(lower, kw.trigger) {
			seen[kw.feature] = struct{}{}
			found = append(found, kw.feature)
		}
	}
	return found
}

// Names lists every feature the extractor can report, in dictionary order.
func Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, kw := range dictionary {
		if _, ok := seen[kw.feature]; ok {
			continue
		}
		seen[kw.feature] = struct{}{}
		names = append(names, kw.feature)
	}
	return names
}
