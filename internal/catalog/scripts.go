package catalog

import "strings"

// Scripts holds the dialog prompt templates. Templates may reference
// {company} and {name}; Render substitutes both.
type Scripts struct {
	Intro          string `yaml:"intro"`
	ContactLater   string `yaml:"contact_later"`
	NamePrompt     string `yaml:"name_prompt"`
	Research       string `yaml:"research"`
	Presentation   string `yaml:"presentation"`
	Invitation     string `yaml:"invitation"`
	Confirmation   string `yaml:"confirmation"`
	NotInterested  string `yaml:"not_interested"`
	ThinkItOver    string `yaml:"think_it_over"`
	Confirmed      string `yaml:"confirmed"`
	Cancelled      string `yaml:"cancelled"`
	AltTime        string `yaml:"alt_time"`
	Farewell       string `yaml:"farewell"`
	GenericError   string `yaml:"generic_error"`
	UnknownCommand string `yaml:"unknown_command"`
}

// Render substitutes the {company} and {name} placeholders in a template.
func Render(tmpl, company, name string) string {
	out := strings.ReplaceAll(tmpl, "{company}", company)
	return strings.ReplaceAll(out, "{name}", name)
}

func defaultScripts() Scripts {
	return Scripts{
		Intro: "Hello! I am the HR assistant of {company}. " +
			"We received your application. Is it convenient for you to talk right now?",
		ContactLater: "Understood. When may I contact you?",
		NamePrompt:   "Great! Please enter your first and last name.",
		Research: "Nice to meet you, {name}! " +
			"Tell me a little about what matters to you in your next role.",
		Presentation: "Thank you, {name}! Here is a role we think could fit you:",
		Invitation: "Great, {name}! We would like to invite you for an interview at our office. " +
			"Could you come in tomorrow?",
		Confirmation:  "Does tomorrow at 10:00 work for you?",
		NotInterested: "Thank you for your time, {name}! If you change your mind, you can always reach us.",
		ThinkItOver: "{name}, take your time to think it over and let us know your answer " +
			"in whatever way is convenient. We will be waiting to hear from you.",
		Confirmed:      "Excellent, {name}! We look forward to seeing you at the interview. Bye!",
		Cancelled:      "Understood. Have a nice day, goodbye!",
		AltTime:        "Thank you, {name}! We will be expecting you at the suggested time. See you!",
		Farewell:       "Understood. Have a nice day, goodbye!",
		GenericError:   "Something went wrong. Please start over with the /dialog command.",
		UnknownCommand: "Unknown command. Please start with /start.",
	}
}
