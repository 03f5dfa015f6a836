package main

import (
	"testing"
	"time"
	"viaggi/src/models"
	"viaggi/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourPatchUpdatesOnlyPresentKeys(t *testing.T) {
	title := "Costiera Amalfitana"
	body := types.UpdateTourRequestBody{Title: &title}

	updates, departure, ret, err := tourPatchUpdates(&body)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": title}, updates)
	assert.Nil(t, departure)
	assert.Nil(t, ret)
}

func TestTourPatchUpdatesParsesDates(t *testing.T) {
	dep := "2026-10-01 07:30:00 +02:00"
	fare := 120.0
	body := types.UpdateTourRequestBody{Departure: &dep, AdultFare: &fare}

	updates, departure, ret, err := tourPatchUpdates(&body)
	require.NoError(t, err)
	require.NotNil(t, departure)
	assert.Nil(t, ret)
	assert.Equal(t, *departure, updates["departure"])
	assert.Equal(t, fare, updates["adult_fare"])
	assert.Len(t, updates, 2)
}

func TestTourPatchUpdatesRejectsBadDate(t *testing.T) {
	dep := "not-a-date"
	body := types.UpdateTourRequestBody{Departure: &dep}

	_, _, _, err := tourPatchUpdates(&body)
	require.Error(t, err)
}

func TestTourPatchUpdatesEmptyBody(t *testing.T) {
	updates, _, _, err := tourPatchUpdates(&types.UpdateTourRequestBody{})
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestMergeGalleryAppendsUploads(t *testing.T) {
	stored := types.StringArray{"a.jpg", "b.jpg"}

	gallery, changed := mergeGallery(stored, nil, []string{"c.jpg"})
	assert.True(t, changed)
	assert.Equal(t, types.StringArray{"a.jpg", "b.jpg", "c.jpg"}, gallery)
}

func TestMergeGalleryReplacementThenAppend(t *testing.T) {
	stored := types.StringArray{"a.jpg", "b.jpg"}
	replacement := []string{"b.jpg"}

	gallery, changed := mergeGallery(stored, &replacement, []string{"c.jpg"})
	assert.True(t, changed)
	assert.Equal(t, types.StringArray{"b.jpg", "c.jpg"}, gallery)
}

func TestCheckTourDatesRejectsInvertedPatch(t *testing.T) {
	departure := time.Date(2026, 10, 1, 7, 30, 0, 0, time.UTC)
	ret := departure.Add(-24 * time.Hour)

	err := checkTourDates(&models.Tour{}, &departure, &ret)
	require.Error(t, err)
}

func TestCheckTourDatesAgainstStoredValue(t *testing.T) {
	stored := time.Date(2026, 10, 5, 18, 0, 0, 0, time.UTC)
	tour := models.Tour{Return: &stored}

	late := stored.Add(48 * time.Hour)
	err := checkTourDates(&tour, &late, nil)
	require.Error(t, err)

	early := stored.Add(-48 * time.Hour)
	assert.NoError(t, checkTourDates(&tour, &early, nil))
}

func TestCheckTourDatesMissingSides(t *testing.T) {
	departure := time.Date(2026, 10, 1, 7, 30, 0, 0, time.UTC)

	assert.NoError(t, checkTourDates(&models.Tour{}, &departure, nil))
	assert.NoError(t, checkTourDates(&models.Tour{}, nil, nil))
}

func TestMergeGalleryUntouched(t *testing.T) {
	stored := types.StringArray{"a.jpg"}

	gallery, changed := mergeGallery(stored, nil, nil)
	assert.False(t, changed)
	assert.Equal(t, stored, gallery)
}
