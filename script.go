package hollowreach

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Value  float64 `json:"value,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"move": true, "jump": true, "attack": true, "cast": true,
	"next": true, "prev": true, "pause": true, "debug": true, "wait": true,
	"screenshot": true,
}

// ScriptInput replays a scripted sequence of controls, one step per frame,
// for automated play-throughs. "move" sets the held direction until the next
// "move"; "wait" idles for the given number of frames; every other action
// fires once.
type ScriptInput struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	move      float64
	done      bool
}

var _ InputSource = (*ScriptInput)(nil)

// LoadInputScript parses a JSON input script.
func LoadInputScript(jsonData []byte) (*ScriptInput, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptInput{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptInput) Done() bool {
	return r.done
}

// Poll implements InputSource.
func (r *ScriptInput) Poll() Controls {
	c := Controls{Move: r.move}
	if r.done {
		return c
	}
	if r.waitCount > 0 {
		r.waitCount--
		return c
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return c
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move":
		r.move = min(max(st.Value, -1), 1)
		c.Move = r.move
	case "jump":
		c.Jump = true
	case "attack":
		c.Attack = true
	case "cast":
		c.Cast = true
	case "next":
		c.NextAbility = true
	case "prev":
		c.PrevAbility = true
	case "pause":
		c.Pause = true
	case "debug":
		c.Debug = true
	case "screenshot":
		c.Screenshot = true
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return c
}
