package flatfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/pantryinv/internal/domain"
)

func expiring(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestWriteFormat(t *testing.T) {
	items := []*domain.Item{
		{ID: 1, Name: "Black Beans", Category: "Canned", Quantity: 12, ExpiresOn: expiring(2025, 2, 1)},
		{ID: 2, Name: "Rice", Category: "Grains", Quantity: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, items))
	assert.Equal(t, "1,Black Beans,Canned,12,2025-02-01\n2,Rice,Grains,0,\n", buf.String())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.txt")
	items := []*domain.Item{
		{ID: 1, Name: "Peanut Butter", Category: "Spreads", Quantity: 3, ExpiresOn: expiring(2026, 11, 30)},
		{ID: 2, Name: "Oats", Category: "Grains", Quantity: 7},
		{ID: 2, Name: "Oats", Category: "Grains", Quantity: 1, ExpiresOn: expiring(2024, 1, 1)},
	}

	require.NoError(t, Save(items, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestReadSkipsBlankLines(t *testing.T) {
	items, err := Read(strings.NewReader("1,Tea,Drinks,2,2025-06-01\r\n\n2,Coffee,Drinks,1,\n"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Tea", items[0].Name)
	assert.Nil(t, items[1].ExpiresOn)
}

func TestReadMissingField(t *testing.T) {
	_, err := Read(strings.NewReader("1,Tea,Drinks,2,2025-06-01\n2,Coffee,Drinks,1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedLine)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEmbeddedComma(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*domain.Item{{ID: 1, Name: "Salt, iodized", Category: "Spices", Quantity: 1}}))

	_, err := Read(&buf)
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestReadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"id":       "x,Tea,Drinks,2,2025-06-01",
		"quantity": "1,Tea,Drinks,two,2025-06-01",
		"negative": "1,Tea,Drinks,-1,2025-06-01",
		"date":     "1,Tea,Drinks,2,06/01/2025",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			items, err := Read(strings.NewReader(line + "\n"))
			assert.ErrorIs(t, err, ErrMalformedLine)
			assert.Nil(t, items)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pantry.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Old,Stock,1,\n"), 0644))

	require.NoError(t, Save([]*domain.Item{{ID: 1, Name: "Tea", Category: "Drinks", Quantity: 2}}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Tea,Drinks,2,\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file should be left behind")
}
