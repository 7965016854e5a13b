package campaign

// MovedNPC relocates an NPC by name.
type MovedNPC struct {
	Name string `json:"name"`
	To   string `json:"to"`
}

// Delta is the compact mutation batch a turn proposes against campaign
// state. The narrative provider emits one delta per turn; the tracker
// applies it atomically. A delta referencing an unknown location or NPC has
// that entry dropped while the rest of the batch still applies.
type Delta struct {
	SetLocation   string            `json:"set_location,omitempty"`
	SetFlags      map[string]string `json:"set_flags,omitempty"`
	CompleteQuest bool              `json:"complete_quest,omitempty"`
	SetQuestTitle string            `json:"set_quest_title,omitempty"` // retitle the active quest
	MovedNPCs     []MovedNPC        `json:"moved_npcs,omitempty"`
}

// IsEmpty reports whether the delta proposes no changes.
func (d *Delta) IsEmpty() bool {
	return d == nil || (d.SetLocation == "" &&
		len(d.SetFlags) == 0 &&
		!d.CompleteQuest &&
		d.SetQuestTitle == "" &&
		len(d.MovedNPCs) == 0)
}

// FlagKeys returns the flag keys the delta touches, for turn records.
func (d *Delta) FlagKeys() []string {
	if d == nil || len(d.SetFlags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.SetFlags))
	for k := range d.SetFlags {
		keys = append(keys, k)
	}
	return keys
}
