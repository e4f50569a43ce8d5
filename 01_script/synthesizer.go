package script

import (
	"fmt"
	"strings"

	"promo-shorts-pipeline/types"
)

// categoryRule maps subject keywords to a product category.
// Order matters: overlapping keywords resolve to the first matching rule.
type categoryRule struct {
	name     string
	keywords []string
}

var categoryRules = []categoryRule{
	{"beauty", []string{"glow", "serum", "skincare", "cream", "beauty", "face", "makeup", "lotion"}},
	{"tech", []string{"phone", "laptop", "gadget", "smart", "tech", "camera", "earbuds", "charger"}},
	{"fashion", []string{"dress", "shirt", "jacket", "shoe", "sneaker", "fashion", "wear", "bag"}},
	{"food", []string{"snack", "drink", "coffee", "tea", "food", "taste", "chocolate", "sauce"}},
}

const (
	defaultCategory = "default"
	genericMood     = "generic"
	subjectToken    = "{subject}"
)

// templates holds the mood → category → line templates. Every set has
// exactly ten lines; the first line never references the subject and the
// second always does. Lookup falls back mood.default, then generic.default.
var templates = map[string]map[string][]string{
	"funny": {
		"beauty": {
			"Okay, stop scrolling. This is important.",
			"Meet {subject}. Your skin has been waiting for this.",
			"You know that glow filter you always use?",
			"Yeah. You won't need it anymore.",
			"{subject} works while you binge your shows.",
			"Your mirror is about to get very flattering.",
			"Even your selfie camera will be confused.",
			"No twelve-step routine. Just this.",
			"Your friends will ask what changed. Don't tell them.",
			"Get {subject} before everyone else does.",
		},
		"tech": {
			"Your gadget drawer called. It's embarrassed.",
			"Say hello to {subject}. It actually works.",
			"Remember the last thing you bought that disappointed you?",
			"This is not that.",
			"{subject} does the job while you take the credit.",
			"Setup takes less time than reading this.",
			"Your old one just became a paperweight.",
			"Battery for days. Excuses for none.",
			"It's the upgrade your future self ordered.",
			"Grab {subject} before it sells out. Again.",
		},
		"default": {
			"Stop. You need to see this.",
			"This is {subject}, and yes, it's as good as it looks.",
			"You've bought worse things at 2am. Admit it.",
			"At least this one you'll actually use.",
			"{subject} just makes life easier. That's the whole pitch.",
			"No gimmicks. Well, maybe one or two good ones.",
			"Your friends will pretend they found it first.",
			"It ships fast. Your excuses don't.",
			"Treat yourself. You've earned at least this much.",
			"Get {subject} today. Thank yourself tomorrow.",
		},
	},
	"luxurious": {
		"default": {
			"Some things aren't bought. They're chosen.",
			"Introducing {subject}. Crafted for the few.",
			"Every detail considered. Nothing left to chance.",
			"This is what refinement feels like.",
			"{subject} doesn't follow trends. It outlasts them.",
			"Quiet quality. Unmistakable presence.",
			"Made for those who notice the difference.",
			"Elegance isn't loud. It doesn't need to be.",
			"Own something worth keeping.",
			"{subject}. Because you already know.",
		},
	},
	"energetic": {
		"default": {
			"Let's go. No time to waste.",
			"This is {subject}, and it changes everything.",
			"Built to keep up with your pace.",
			"Zero compromises. Full send.",
			"{subject} delivers, every single time.",
			"Feel the difference from day one.",
			"This is what next-level looks like.",
			"Push harder. It can take it.",
			"Don't wait for the restock.",
			"Get {subject} now. Go, go, go.",
		},
		"tech": {
			"Power up. This one's different.",
			"Meet {subject}. Speed you can feel.",
			"Lag is a choice. Choose better.",
			"Performance tuned for people who push limits.",
			"{subject} keeps up when everything else quits.",
			"Charge fast. Move faster.",
			"Your setup just found its missing piece.",
			"Numbers don't lie. Neither do results.",
			"The upgrade window is open.",
			"Grab {subject} and feel the jump.",
		},
	},
	genericMood: {
		"default": {
			"Here's something worth your attention.",
			"This is {subject}.",
			"Designed to solve a real, everyday problem.",
			"Simple to use. Hard to give up.",
			"{subject} fits right into your routine.",
			"Quality you can see and feel.",
			"Thousands already made the switch.",
			"It does exactly what it promises.",
			"That alone makes it rare.",
			"Try {subject}. See for yourself.",
		},
	},
}

// CategoryFor resolves a subject to its product category,
// first keyword match wins
func CategoryFor(subject string) string {
	lower := strings.ToLower(subject)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return defaultCategory
}

// Synthesize produces the fixed-count promo script for a subject and mood.
// Deterministic: same inputs always yield the same lines.
func Synthesize(subject, mood string) ([]types.ScriptLine, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is empty")
	}

	category := CategoryFor(subject)
	set := templateSet(strings.ToLower(mood), category)

	lines := make([]types.ScriptLine, 0, len(set))
	for i, tmpl := range set {
		lines = append(lines, types.ScriptLine{
			Index: i,
			Text:  strings.ReplaceAll(tmpl, subjectToken, subject),
		})
	}
	return lines, nil
}

// templateSet picks the template lines for a mood/category pair.
// Unknown mood falls to the generic mood; a mood without the category
// falls to its default set, then to generic.default.
func templateSet(mood, category string) []string {
	byCategory, ok := templates[mood]
	if !ok {
		byCategory = templates[genericMood]
	}
	if set, ok := byCategory[category]; ok {
		return set
	}
	if set, ok := byCategory[defaultCategory]; ok {
		return set
	}
	return templates[genericMood][defaultCategory]
}
