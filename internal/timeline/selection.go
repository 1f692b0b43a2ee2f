package timeline

// Selection is the set of currently active clip ids. It is ephemeral UI
// state: changing it never produces a history snapshot. At most one id is
// the primary selection, which is the only clip showing transform handles.
type Selection struct {
	Primary string   `json:"primary,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

// Set replaces the selection with a single clip.
func (s *Selection) Set(id string) {
	s.Primary = id
	s.IDs = []string{id}
}

// Add marks a clip selected without changing the primary. The first
// selected clip becomes primary.
func (s *Selection) Add(id string) {
	if s.Contains(id) {
		return
	}
	s.IDs = append(s.IDs, id)
	if s.Primary == "" {
		s.Primary = id
	}
}

// Remove unmarks a clip. If it was primary, the earliest remaining
// selection becomes primary.
func (s *Selection) Remove(id string) {
	for i, v := range s.IDs {
		if v == id {
			s.IDs = append(s.IDs[:i], s.IDs[i+1:]...)
			break
		}
	}
	if s.Primary == id {
		s.Primary = ""
		if len(s.IDs) > 0 {
			s.Primary = s.IDs[0]
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.Primary = ""
	s.IDs = nil
}

// Contains reports whether the clip is selected.
func (s *Selection) Contains(id string) bool {
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Prune drops selected ids that no longer exist in the project, e.g. after
// an undo that removed clips.
func (s *Selection) Prune(p *Project) {
	kept := s.IDs[:0]
	for _, id := range s.IDs {
		if _, _, err := p.FindClip(id); err == nil {
			kept = append(kept, id)
		}
	}
	s.IDs = kept
	if s.Primary != "" {
		if _, _, err := p.FindClip(s.Primary); err != nil {
			s.Primary = ""
			if len(s.IDs) > 0 {
				s.Primary = s.IDs[0]
			}
		}
	}
}
