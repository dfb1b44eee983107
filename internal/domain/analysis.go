package domain

// Analysis is the structured breakdown the external language-model service
// returns for a piece of free text. Its JSON shape is owned by that service;
// this is the contract the authoring path consumes.
type Analysis struct {
	Title              string        `json:"title"`
	MainIdeas          []string      `json:"main_ideas"`
	KeyConcepts        []string      `json:"key_concepts"`
	SuggestedStructure SceneTemplate `json:"suggested_structure"`
}
