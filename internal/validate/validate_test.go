package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnizeh/jobboard/internal/validate"
	"github.com/garnizeh/jobboard/pkg/repository"
)

func TestCheck(t *testing.T) {
	v, err := validate.New()
	require.NoError(t, err)

	cases := []struct {
		name      string
		schema    string
		body      string
		wantField string
		wantOK    bool
	}{
		{name: "StatusOK", schema: validate.Status, body: `{"name":"Phone screen"}`, wantOK: true},
		{name: "StatusMissingName", schema: validate.Status, body: `{}`, wantField: "name"},
		{name: "StatusEmptyName", schema: validate.Status, body: `{"name":""}`, wantField: "name"},
		{name: "StatusNameTooLong", schema: validate.Status, body: `{"name":"` + strings.Repeat("x", 51) + `"}`, wantField: "name"},
		{name: "OrderOK", schema: validate.StatusOrder, body: `{"order":[3,1,2]}`, wantOK: true},
		{name: "OrderNotIntegers", schema: validate.StatusOrder, body: `{"order":["a"]}`, wantField: "order"},
		{name: "AddJobOK", schema: validate.ApplicationCreate, body: `{"company":"Acme","position":"SRE","status":4}`, wantOK: true},
		{name: "AddJobMissingCompany", schema: validate.ApplicationCreate, body: `{"position":"SRE","status":4}`, wantField: "company"},
		{name: "AddJobMissingStatus", schema: validate.ApplicationCreate, body: `{"company":"Acme","position":"SRE"}`, wantField: "status"},
		{name: "UpdateNullsAllowed", schema: validate.ApplicationUpdate, body: `{"company":null,"stageId":2,"stageName":"Offer"}`, wantOK: true},
		{name: "UpdateBadStage", schema: validate.ApplicationUpdate, body: `{"stageId":"two"}`, wantField: "stageId"},
		{name: "FileOK", schema: validate.FileCreate, body: `{"typeId":1,"url":"http://x/1/cv/a","name":"cv.pdf","applicationIds":[1,2]}`, wantOK: true},
		{name: "FileMissingURL", schema: validate.FileCreate, body: `{"typeId":1,"name":"cv.pdf"}`, wantField: "url"},
		{name: "FileUpdateDetachAll", schema: validate.FileUpdate, body: `{"applicationIds":[]}`, wantOK: true},
		{name: "PresignOK", schema: validate.Presign, body: `{"docType":"cl","filename":"letter.pdf"}`, wantOK: true},
		{name: "PresignBadType", schema: validate.Presign, body: `{"docType":"photo","filename":"me.png"}`, wantField: "docType"},
		{name: "NotJSON", schema: validate.Status, body: `name=x`, wantField: ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.Check(context.Background(), c.schema, []byte(c.body))
			if c.wantOK {
				require.NoError(t, err)
				return
			}
			var ve *repository.ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			require.Equal(t, c.wantField, ve.Field)
		})
	}
}

func TestCheck_UnknownSchema(t *testing.T) {
	v := validate.MustNew()
	err := v.Check(context.Background(), "nope", []byte(`{}`))
	require.Error(t, err)

	var ve *repository.ValidationError
	require.False(t, errors.As(err, &ve))
}
