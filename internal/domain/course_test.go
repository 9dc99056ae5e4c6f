package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCourseReadiness_AllFieldSubsets(t *testing.T) {
	published := []Chapter{{IsPublished: true}}
	drafts := []Chapter{{IsPublished: false}}

	// Every subset of the five course fields, with and without a published chapter.
	for mask := 0; mask < 1<<5; mask++ {
		c := Course{}
		if mask&1 != 0 {
			c.Title = "Intro"
		}
		if mask&2 != 0 {
			c.Description = ptr("desc")
		}
		if mask&4 != 0 {
			c.ImageURL = ptr("https://cdn/img.png")
		}
		if mask&8 != 0 {
			c.Price = ptr(9.99)
		}
		if mask&16 != 0 {
			c.CategoryID = ptr("cat-1")
		}
		allSet := mask == 1<<5-1

		assert.Equal(t, allSet, c.Readiness(published).Ready(), "mask=%05b with published chapter", mask)
		assert.False(t, c.Readiness(drafts).Ready(), "mask=%05b without published chapter", mask)
		assert.False(t, c.Readiness(nil).Ready(), "mask=%05b without chapters", mask)
	}
}

func TestCourseReadiness_Counts(t *testing.T) {
	c := Course{Title: "Intro"}
	r := c.Readiness(nil)

	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 1, r.Completed)
	assert.ElementsMatch(t, []string{"description", "imageUrl", "price", "categoryId", "publishedChapter"}, r.Missing)
}

func TestCourseReadiness_BlankStringsAreUnset(t *testing.T) {
	c := Course{
		Title:       "Intro",
		Description: ptr("   "),
		ImageURL:    ptr("img"),
		Price:       ptr(0.0),
		CategoryID:  ptr("cat"),
	}
	r := c.Readiness([]Chapter{{IsPublished: true}})
	assert.Equal(t, []string{"description"}, r.Missing)
}

func TestChapterReadiness(t *testing.T) {
	ch := Chapter{Title: "One", Description: ptr("d"), VideoURL: ptr("https://v/1.mp4")}

	assert.False(t, ch.Readiness(nil).Ready())
	assert.True(t, ch.Readiness(&MuxData{AssetID: "a"}).Ready())

	ch.VideoURL = nil
	assert.Equal(t, []string{"videoUrl"}, ch.Readiness(&MuxData{AssetID: "a"}).Missing)
}

func TestChapterReadiness_BlankTitleIsUnset(t *testing.T) {
	ch := Chapter{Title: "   ", Description: ptr("d"), VideoURL: ptr("https://v/1.mp4")}

	r := ch.Readiness(&MuxData{AssetID: "a"})
	assert.False(t, r.Ready())
	assert.Equal(t, []string{"title"}, r.Missing)
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "notes.pdf", AttachmentName("https://utfs.io/f/abc/notes.pdf"))
	assert.Equal(t, "plain", AttachmentName("plain"))
	assert.Equal(t, "", AttachmentName("https://utfs.io/f/"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 100.0, Percent(3, 3))
}
