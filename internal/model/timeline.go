package model

const timelineDateFormat = "Jan 2, 2006 - 03:04 PM"

// BuildTimeline converts a complaint's history into one display step per
// lifecycle state, in lifecycle order. Reached states carry the date and note
// of their history entry; unreached states are placeholders, dated from the
// complaint's estimated resolution when one is set.
//
// A history entry whose status is not part of the lifecycle fails the whole
// build with InvalidStateError rather than being dropped silently; callers
// listing many complaints skip and report such records.
func BuildTimeline(c *Complaint) ([]TimelineStep, error) {
	reached := make(map[Status]*HistoryEntry, len(c.History))
	for i := range c.History {
		entry := &c.History[i]
		if !entry.Status.Valid() {
			return nil, &InvalidStateError{ComplaintID: c.ID, Status: entry.Status}
		}
		// keep the earliest entry per status
		if _, ok := reached[entry.Status]; !ok {
			reached[entry.Status] = entry
		}
	}

	estimate := ""
	if c.EstimatedResolution != nil {
		estimate = "Estimated: " + c.EstimatedResolution.Format("Jan 2, 2006")
	}

	steps := make([]TimelineStep, 0, len(StatusOrder))
	for _, status := range StatusOrder {
		step := TimelineStep{Status: status, Label: status.Label()}
		if entry, ok := reached[status]; ok {
			step.Completed = true
			step.Date = entry.CreatedAt.Format(timelineDateFormat)
			step.Description = entry.Note
		} else {
			step.Date = estimate
		}
		steps = append(steps, step)
	}
	return steps, nil
}
