package service

import (
	"testing"

	"killrvideoit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	dir := domain.StorageDirectoryKey()
	one := []domain.RegistrationEntry{{Key: dir.Child("n1"), Value: "10.0.0.1:9042"}}
	two := append(one, domain.RegistrationEntry{Key: dir.Child("n2"), Value: "10.0.0.2:9042"})

	t.Run("first_picks_first_observed", func(t *testing.T) {
		got, err := SelectFirst(dir, two)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1:9042", got.Value)
	})

	t.Run("unique_accepts_single", func(t *testing.T) {
		got, err := SelectUnique(dir, one)
		require.NoError(t, err)
		assert.Equal(t, one[0], got)
	})

	t.Run("unique_rejects_several", func(t *testing.T) {
		_, err := SelectUnique(dir, two)
		require.Error(t, err)
		assert.True(t, IsBadParameterError(err))
		assert.Contains(t, err.Error(), "killrvideo/services/cassandra/n2")
	})
}

func TestSelectorByName(t *testing.T) {
	for _, name := range []string{"", "first", " FIRST ", "unique"} {
		sel, err := SelectorByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, sel)
	}
	_, err := SelectorByName("random")
	require.Error(t, err)
	assert.True(t, IsBadParameterError(err))
}
