package orchestration

import (
	"github.com/srabonm/tandem-core/core/llms"
	"github.com/srabonm/tandem-core/core/texttospeech"
)

func orchestrationTools(o *Orchestrator) []llms.Tool {
	return []llms.Tool{
		llms.NewTool("voice_output_control",
			"Turn the assistant's spoken replies on or off, might be referred to as 'muting'",
			func(parameters struct {
				IsEnabled bool `json:"is_enabled" jsonschema:"description=Whether to speak replies aloud"`
			}) (string, error) {
				o.SetVoiceOutput(parameters.IsEnabled)
				return "Success. Respond with a very short phrase", nil
			}),
		llms.NewTool("voice_gender_control",
			"Switch the assistant's speaking voice between a female and a male voice",
			func(parameters struct {
				Gender string `json:"gender" jsonschema:"description=Either 'female' or 'male'"`
			}) (string, error) {
				o.SetVoiceGender(texttospeech.Gender(parameters.Gender))
				return "Success. Respond with a very short phrase", nil
			}),
	}
}
