package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assistant-go/internal/model"
)

func TestFilterNotesMatchesTitleContentAndTags(t *testing.T) {
	notes := []model.Note{
		{ID: 1, Title: "Boodschappenlijst", Content: "melk, brood"},
		{ID: 2, Title: "Vergadering", Content: "notulen van maandag"},
		{ID: 3, Title: "Overig", Content: "", Tags: model.StringList{"boodschappen"}},
	}

	docs := filterNotes(notes, "Boodschappen", 10)
	assert.Len(t, docs, 2)
	assert.Equal(t, uint(1), docs[0].DocID)
	assert.Equal(t, uint(3), docs[1].DocID)
}

func TestFilterNotesHonorsLimit(t *testing.T) {
	notes := []model.Note{
		{ID: 1, Title: "a melk"},
		{ID: 2, Title: "b melk"},
		{ID: 3, Title: "c melk"},
	}
	docs := filterNotes(notes, "melk", 2)
	assert.Len(t, docs, 2)
}
