package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeff제목,회사명,지역,직무분야,비고\n" +
		"백엔드 개발자,  테스트랩 ,서울 강남구,\"Python, Django 외\",x\n" +
		",빈제목,부산,,\n" +
		"데이터 \"엔지니어,샘플,,,\n" +
		"프론트엔드,샘플소프트,,,\n"

	listings, rowErrs := ReadCSV(strings.NewReader(input))

	require.Len(t, listings, 2)
	assert.Equal(t, "테스트랩", listings[0].Company)
	assert.Equal(t, "백엔드 개발자", listings[0].Title)
	assert.Equal(t, ptr("서울 강남구"), listings[0].Location)
	assert.Equal(t, ptr("Python, Django 외"), listings[0].Sector)
	assert.Nil(t, listings[0].Link, "absent columns are nil")

	assert.Equal(t, "샘플소프트", listings[1].Company)
	assert.Nil(t, listings[1].Location)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.True(t, errors.Is(rowErrs[0], errMissingField))
	assert.Equal(t, 4, rowErrs[1].Line)
}

func TestReadCSV_MissingRequiredColumn(t *testing.T) {
	listings, rowErrs := ReadCSV(strings.NewReader("회사명,지역\n테스트랩,서울\n"))
	assert.Empty(t, listings)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 1, rowErrs[0].Line)
	assert.True(t, errors.Is(rowErrs[0], errMissingColumn))
}

func TestReadCSV_Empty(t *testing.T) {
	listings, rowErrs := ReadCSV(strings.NewReader(""))
	assert.Empty(t, listings)
	assert.Empty(t, rowErrs)
}

func TestWriteCSV_ReadBack(t *testing.T) {
	in := []Listing{
		{Company: "테스트랩", Title: "백엔드, 플랫폼", Link: ptr("https://example.test/1"), Sector: ptr("Go, Kubernetes")},
		{Company: "샘플", Title: "QA"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "회사명,제목,링크,지역,경력,학력,고용형태,마감일,직무분야,연봉정보\n"))

	out, rowErrs := ReadCSV(&buf)
	assert.Empty(t, rowErrs)
	assert.Equal(t, in, out)
}
