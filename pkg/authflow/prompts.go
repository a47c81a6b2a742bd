package authflow

import "regexp"

// Prompt is an interactive question of the auth command together with the
// scripted answer written to its standard input.
type Prompt struct {
	// Name labels the prompt in logs and metrics.
	Name string
	// Trigger is matched as a plain substring of a single stdout chunk.
	Trigger string
	Reply   string
	// Notice is printed when the reply is sent.
	Notice string
}

// DefaultPrompts answers the two questions gh asks during a web login.
var DefaultPrompts = []Prompt{
	{
		Name:    "credentials",
		Trigger: "Authenticate Git with your GitHub credentials?",
		Reply:   "Y\n",
		Notice:  `Detected credentials prompt. Sending "Y"...`,
	},
	{
		Name:    "browser",
		Trigger: "Press Enter to open github.com in your browser...",
		Reply:   "\n",
		Notice:  "Detected browser prompt. Pressing Enter...",
	},
}

var oneTimeCodePattern = regexp.MustCompile(`one-time code:\s*([A-Z0-9]{4}-[A-Z0-9]{4})`)

// ExtractCode returns the first device code found in text.
func ExtractCode(text string) (string, bool) {
	m := oneTimeCodePattern.FindStringSubmatch(text)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}
