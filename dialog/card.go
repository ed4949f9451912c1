// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dialog

const (
	Schema  = "https://adaptivecards.io/schemas/adaptive-card.json"
	Version = "1.5"

	ToggleOn  = "true"
	ToggleOff = "false"
)

// Card is an adaptive card sent to the host's dialog surface.
type Card struct {
	Type    string    `json:"type"`
	Schema  string    `json:"$schema,omitempty"`
	Version string    `json:"version"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions,omitempty"`
}

// Element covers the TextBlock and Input.* elements the cards use.
type Element struct {
	Type          string   `json:"type"`
	ID            string   `json:"id,omitempty"`
	Text          string   `json:"text,omitempty"`
	Label         string   `json:"label,omitempty"`
	Placeholder   string   `json:"placeholder,omitempty"`
	Title         string   `json:"title,omitempty"`
	Weight        string   `json:"weight,omitempty"`
	Size          string   `json:"size,omitempty"`
	Spacing       string   `json:"spacing,omitempty"`
	Style         string   `json:"style,omitempty"`
	IsRequired    bool     `json:"isRequired,omitempty"`
	IsMultiline   bool     `json:"isMultiline,omitempty"`
	IsMultiSelect bool     `json:"isMultiSelect,omitempty"`
	ValueOn       string   `json:"valueOn,omitempty"`
	ValueOff      string   `json:"valueOff,omitempty"`
	Choices       []Choice `json:"choices,omitempty"`
}

type Choice struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type Action struct {
	Type  string            `json:"type"`
	Title string            `json:"title"`
	Data  map[string]string `json:"data,omitempty"`
}

func NewCard(body []Element, actions ...Action) Card {
	return Card{
		Type:    "AdaptiveCard",
		Schema:  Schema,
		Version: Version,
		Body:    body,
		Actions: actions,
	}
}

func Heading(text string) Element {
	return Element{Type: "TextBlock", Text: text, Weight: "Bolder", Size: "Medium"}
}

func TextInput(id, label string, required bool) Element {
	return Element{Type: "Input.Text", ID: id, Label: label, IsRequired: required}
}

func Toggle(id, title string) Element {
	return Element{Type: "Input.Toggle", ID: id, Title: title, ValueOn: ToggleOn, ValueOff: ToggleOff}
}

// Submit is an Action.Submit whose data carries the action name back with
// the result.
func Submit(title, action string) Action {
	return Action{Type: "Action.Submit", Title: title, Data: map[string]string{"action": action}}
}
