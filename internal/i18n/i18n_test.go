package i18n

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFallsBack(t *testing.T) {
	assert.Equal(t, "en", Resolve("EN", "fr").Lang)
	assert.Equal(t, "ja", Resolve("de", "ja").Lang)
	assert.Equal(t, Default, Resolve("de", "xx").Lang)
	assert.Equal(t, Default, Resolve("", "").Lang)
}

func TestCodeMail(t *testing.T) {
	m, ok := Lookup("fr")
	require.True(t, ok)
	assert.Contains(t, m.CodeMail("004217"), "004217")
	assert.NotContains(t, m.CodeMail("004217"), "{code}")
}

func TestEveryLocaleIsComplete(t *testing.T) {
	for _, m := range All() {
		v := reflect.ValueOf(m)
		for i := 0; i < v.NumField(); i++ {
			assert.NotEmpty(t, v.Field(i).String(), "%s.%s", m.Lang, v.Type().Field(i).Name)
		}
		assert.Contains(t, m.EmailBody, "{code}", m.Lang)
	}
	ar, _ := Lookup("ar")
	assert.Equal(t, "rtl", ar.Dir)
}
