package conversation

import "biomni-chat/internal/domain/entity"

// NormalizeHistory flattens UI history into chronological turns. A pair
// yields a user turn then an assistant turn; a record yields one turn with
// its role verbatim, or assistant when the role is absent. Absent text
// becomes "". Entries of any other shape are skipped.
func NormalizeHistory(entries []entity.HistoryEntry) []entity.Turn {
	turns := make([]entity.Turn, 0, len(entries)*2)
	for _, e := range entries {
		switch v := e.(type) {
		case entity.PairEntry:
			turns = append(turns,
				entity.Turn{Role: entity.RoleUser, Text: deref(v.User)},
				entity.Turn{Role: entity.RoleAssistant, Text: deref(v.Assistant)},
			)
		case *entity.PairEntry:
			if v != nil {
				turns = append(turns,
					entity.Turn{Role: entity.RoleUser, Text: deref(v.User)},
					entity.Turn{Role: entity.RoleAssistant, Text: deref(v.Assistant)},
				)
			}
		case entity.RecordEntry:
			turns = append(turns, recordTurn(v))
		case *entity.RecordEntry:
			if v != nil {
				turns = append(turns, recordTurn(*v))
			}
		case entity.UnknownEntry, *entity.UnknownEntry, nil:
			// skipped
		}
	}
	return turns
}

func recordTurn(r entity.RecordEntry) entity.Turn {
	role := entity.RoleAssistant
	if r.Role != nil {
		role = entity.MessageRole(*r.Role)
	}
	return entity.Turn{Role: role, Text: deref(r.Content)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
