package ccl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorSaveLoadRoundTrip(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, v.Add(e))
	}
	var buf bytes.Buffer
	require.NoError(t, v.AsSequential().Save(&buf))

	loaded, err := LoadVector[int](&buf)
	require.NoError(t, err)
	assert.Equal(t, vectorValues(t, v), vectorValues(t, loaded))
}

func TestListSaveLoadRoundTrip(t *testing.T) {
	l := NewList[string]()
	for _, e := range []string{"a", "b", "c"} {
		require.NoError(t, l.Add(e))
	}
	var buf bytes.Buffer
	require.NoError(t, l.AsSequential().Save(&buf))

	loaded, err := LoadList[string](&buf)
	require.NoError(t, err)
	assert.Equal(t, listValues(t, l), listValues(t, loaded))
}

func TestDictionarySaveLoadRoundTrip(t *testing.T) {
	d := NewDictionary[int](0)
	require.NoError(t, d.Insert("a", 1))
	require.NoError(t, d.Insert("b", 2))

	var buf bytes.Buffer
	require.NoError(t, d.AsAssociative().Save(&buf))

	loaded, err := LoadDictionary[int](&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())
	p, err := loaded.GetElementByKey("a")
	require.NoError(t, err)
	assert.Equal(t, 1, *p)
}

func TestLoadVectorRejectsWrongGUID(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.Add(1))
	var buf bytes.Buffer
	require.NoError(t, l.AsSequential().Save(&buf))

	_, err := LoadVector[int](&buf)
	assert.ErrorIs(t, err, &Error{Kind: WrongFile})
}

func TestLoadDictionaryRejectsWrongGUID(t *testing.T) {
	v := NewVector[int](0)
	require.NoError(t, v.Add(1))
	var buf bytes.Buffer
	require.NoError(t, v.AsSequential().Save(&buf))

	_, err := LoadDictionary[int](&buf)
	assert.ErrorIs(t, err, &Error{Kind: WrongFile})
}
