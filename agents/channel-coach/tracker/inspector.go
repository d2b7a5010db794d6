package tracker

import (
	"unicode/utf8"

	"channel-coach/agents/channel-coach/analysis"
	"channel-coach/internal/models"
)

type Inspection struct {
	Status  models.VerificationStatus `json:"status"`
	Message string                    `json:"message"`
}

// InspectAction checks whether the video attribute an action targets has
// actually improved since the snapshot was taken.
func InspectAction(action models.TrackedAction, current *models.Video) Inspection {
	if action.VideoSnapshot == nil {
		return Inspection{models.VerificationPending, "No snapshot data available for verification."}
	}

	switch action.ID {
	case analysis.ActionTitles:
		oldLength := utf8.RuneCountInString(action.VideoSnapshot.Title)
		newLength := utf8.RuneCountInString(current.Title)
		changed := current.Title != action.VideoSnapshot.Title

		if changed && newLength > 20 && newLength <= 60 {
			return Inspection{models.VerificationVerified, "Title length is now optimal."}
		}
		if changed && newLength > oldLength {
			return Inspection{models.VerificationVerified, "Title length increased."}
		}
		return Inspection{models.VerificationFailed, "Title has not been improved."}

	case analysis.ActionSEO:
		newTags := len(current.Tags)
		if newTags > action.VideoSnapshot.TagsCount && newTags >= 5 {
			return Inspection{models.VerificationVerified, "Tags count increased and is optimal."}
		}
		return Inspection{models.VerificationFailed, "Still missing sufficient tags."}
	}

	return Inspection{models.VerificationPending, "Automatic verification not supported for this action type."}
}

// SnapshotOf captures the attributes InspectAction later compares against.
func SnapshotOf(v *models.Video) *models.VideoSnapshot {
	if v == nil {
		return nil
	}
	return &models.VideoSnapshot{
		Title:             v.Title,
		TagsCount:         len(v.Tags),
		DescriptionLength: utf8.RuneCountInString(v.Description),
	}
}
