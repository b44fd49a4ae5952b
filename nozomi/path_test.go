package nozomi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodePath_Areas(t *testing.T) {
	require.Equal(t, "index-korean", EncodePath("language", "korean"))
	require.Equal(t, "index-korean", EncodePath("languages", "korean"))
	require.Equal(t, "type/manga-all", EncodePath("type", "manga"))
	require.Equal(t, "type/doujinshi-all", EncodePath("types", "doujinshi"))
	require.Equal(t, "artist/someone-all", EncodePath("artist", "someone"))
	require.Equal(t, "artist/someone-all", EncodePath("artists", "someone"))
	require.Equal(t, "series/initial_d-all", EncodePath("series", "initial d"))
	require.Equal(t, "character/rem-all", EncodePath("characters", "rem"))
	require.Equal(t, "group/clesta-all", EncodePath("groups", "clesta"))
	require.Equal(t, "tag/full_color-all", EncodePath("tag", "full color"))
}

func TestEncodePath_UnknownCategoryFallsBackToTag(t *testing.T) {
	require.Equal(t, "tag/whatever-all", EncodePath("bogus", "whatever"))
}

func TestEncodePath_GenderedValuesStayOpaqueTags(t *testing.T) {
	require.Equal(t, "tag/male:glasses-all", EncodePath("tag", "male:glasses"))
	require.Equal(t, "tag/female:glasses-all", EncodePath("tag", "female:glasses"))

	// Gendered values are tags no matter the declared category.
	require.Equal(t, "tag/male:glasses-all", EncodePath("artist", "male:glasses"))
}

func TestEncodePath_NamespaceOverridesCategory(t *testing.T) {
	require.Equal(t, "artist/someone-all", EncodePath("tag", "artist:someone"))
	require.Equal(t, "index-japanese", EncodePath("tag", "language:japanese"))
	require.Equal(t, "type/manga-all", EncodePath("tag", "type:manga"))
}

func TestEncodePath_WebtoonTypeRedirectsToTag(t *testing.T) {
	require.Equal(t, "tag/webtoon-all", EncodePath("type", "webtoon"))
	require.Equal(t, EncodePath("tag", "webtoon"), EncodePath("type", "webtoon"))

	// Only the literal webtoon genre is redirected.
	require.Equal(t, "type/manga-all", EncodePath("type", "manga"))
}

func TestEncodeValue_Escapes(t *testing.T) {
	require.Equal(t, "tag/ratslash22-all", EncodePath("tag", "rat/22"))
	require.Equal(t, "tag/verdot5-all", EncodePath("tag", "ver.5"))
	require.Equal(t, "tag/a_b-all", EncodePath("tag", "a b"))
}

func TestCacheName(t *testing.T) {
	require.Equal(t, "nozomi/index-all.nozomi", CacheName(IndexAll))
	require.Equal(t, "nozomi/tag-male-glasses-all.nozomi", CacheName("tag/male:glasses-all"))
	require.Equal(t, "nozomi/type-manga-all.nozomi", CacheName("type/manga-all"))
}
