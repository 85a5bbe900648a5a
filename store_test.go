package objcodec_test

import (
	"io/fs"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	objcodec "github.com/MichaelAJay/go-objcodec"
)

func TestFileStoreReadWrite(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := objcodec.NewFileStore(mem)

	require.NoError(t, store.WriteAll("me.json", []byte(`{"name":"Me"}`)))
	got, err := store.ReadAll("me.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Me"}`, string(got))

	require.NoError(t, store.WriteAll("me.json", []byte(`{}`)))
	got, err = store.ReadAll("me.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got), "overwrite must truncate")
}

func TestFileStoreCompressed(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := objcodec.NewFileStore(mem)
	payload := []byte(`<Person><name>Me</name><age>19</age><isStudent>false</isStudent></Person>`)

	require.NoError(t, store.WriteAll("me.xml"+objcodec.CompressedExt, payload))

	raw, err := afero.ReadFile(mem, "me.xml.zst")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4])

	got, err := store.ReadAll("me.xml.zst")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, store.WriteAll("empty.zst", nil))
	got, err = store.ReadAll("empty.zst")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreCorruptCompressedData(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "bad.zst", []byte("not zstd"), 0o644))

	_, err := objcodec.NewFileStore(mem).ReadAll("bad.zst")
	require.Error(t, err)
	assert.Equal(t, objcodec.KindIOFailure, objcodec.KindOf(err))
}

func TestFileStoreFailures(t *testing.T) {
	mem := afero.NewMemMapFs()

	_, err := objcodec.NewFileStore(mem).ReadAll("missing.json")
	require.Error(t, err)
	assert.Equal(t, objcodec.KindIOFailure, objcodec.KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "%v", err)

	readOnly := objcodec.NewFileStore(afero.NewReadOnlyFs(mem))
	err = readOnly.WriteAll("me.json", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, objcodec.ErrIOFailure), "%v", err)

	exists, err := afero.Exists(mem, "me.json")
	require.NoError(t, err)
	assert.False(t, exists)
}
