package path

import "strings"

// ScenarioLayout carries the text templates of one scenario. Templates
// hold Token at most once; Render substitutes only the first
// occurrence. An empty template is valid and renders empty.
type ScenarioLayout struct {
	ModalHeaderTemplate string
	ButtonTextTemplate  string
	Token               string
}

// Render fills both templates with the field label.
func (l ScenarioLayout) Render(fieldLabel string) (modalHeader, buttonText string) {
	modalHeader = strings.Replace(l.ModalHeaderTemplate, l.Token, fieldLabel, 1)
	buttonText = strings.Replace(l.ButtonTextTemplate, l.Token, fieldLabel, 1)
	return modalHeader, buttonText
}
