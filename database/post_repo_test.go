package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// The adapter's ordering and stamping guarantees live in these documents;
// keeping the builders pure keeps them testable without a live server.

func TestCreateUpdateStampsBothTimestampsServerSide(t *testing.T) {
	cover := "https://cdn.example.com/blog/x.png"
	doc := createUpdate(PostFields{
		Title:      "t",
		Category:   "Event",
		CoverImage: &cover,
		Body:       "<p>x</p>",
	})

	cd, ok := doc["$currentDate"].(bson.M)
	require.True(t, ok, "timestamps must come from the database clock")
	assert.Equal(t, true, cd["createdAt"])
	assert.Equal(t, true, cd["updatedAt"])

	set, ok := doc["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "t", set["title"])
	assert.Equal(t, &cover, set["coverImage"])
	assert.NotContains(t, set, "createdAt", "caller clocks never stamp documents")
	assert.NotContains(t, set, "updatedAt")
}

func TestEditUpdateNeverTouchesCreatedAt(t *testing.T) {
	doc := editUpdate(PostFields{Title: "t", Category: "Event", Body: "<p>x</p>"})

	cd, ok := doc["$currentDate"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, cd["updatedAt"])
	assert.NotContains(t, cd, "createdAt", "createdAt is set exactly once")

	set := doc["$set"].(bson.M)
	assert.NotContains(t, set, "createdAt")
}

func TestEditUpdateWritesExplicitNullCover(t *testing.T) {
	doc := editUpdate(PostFields{Title: "t", Category: "Event"})

	set := doc["$set"].(bson.M)
	v, present := set["coverImage"]
	require.True(t, present, "clearing the cover must be an explicit null write, never a silent drop")
	assert.Nil(t, v)
}

func TestListSortIsNewestFirst(t *testing.T) {
	sort := listSort()
	require.Len(t, sort, 1)
	assert.Equal(t, "createdAt", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
}

func TestListFilterIsCategoryEquality(t *testing.T) {
	assert.Equal(t, bson.M{"category": "Pengumuman"}, listFilter("Pengumuman"))
}
