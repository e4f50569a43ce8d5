package narration

import "strings"

// voiceRule maps subject keywords to an ElevenLabs voice identifier.
// Order matters: the first matching rule wins.
type voiceRule struct {
	keywords []string
	voiceID  string
}

var voiceRules = []voiceRule{
	{[]string{"glow", "serum", "skincare", "cream", "beauty", "face", "makeup"}, "EXAVITQu4vr4xnSDxMaL"}, // Bella
	{[]string{"phone", "laptop", "gadget", "smart", "tech", "camera"}, "ErXwobaYiN019PkySvjV"},           // Antoni
	{[]string{"dress", "shirt", "jacket", "shoe", "fashion", "wear"}, "21m00Tcm4TlvDq8ikWAM"},            // Rachel
	{[]string{"snack", "drink", "coffee", "tea", "food", "taste"}, "AZnzlk1XvdvUeBnXmlld"},               // Domi
}

const defaultVoiceID = "pNInz6obpgDQGcFmaJgB" // Adam

// VoiceFor selects the narration voice for a subject, first keyword
// match wins, default voice otherwise
func VoiceFor(subject string) string {
	lower := strings.ToLower(subject)
	for _, rule := range voiceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.voiceID
			}
		}
	}
	return defaultVoiceID
}
