package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"docvault/internal/logging"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/repository/memory"
	repoMocks "docvault/internal/repository/mocks"
	"docvault/internal/storage"
	storeMocks "docvault/internal/storage/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      CreateDocumentInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantField  string
		wantErrMsg string
	}{
		{
			name:  "happy path offloads to storage",
			input: CreateDocumentInput{Name: "test.txt", FileData: "data:text/plain;base64," + b64("hello world"), FileType: "text/plain", Owner: "MOM"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 11 && opt.ContentType == "text/plain" && opt.Metadata["original-filename"] == "test.txt"
				})).Return(storage.ObjectInfo{Size: 11}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.Content == nil && doc.StoragePath == storage.DocumentKey(doc.ID) && doc.Size == 11 && doc.Owner == model.OwnerMom
				})).Return(&model.Document{ID: "gen-id"}, nil)
			},
		},
		{
			name:      "validation error - empty name",
			input:     CreateDocumentInput{Name: "  ", FileData: b64("x"), FileType: "text/plain", Owner: "MOM"},
			wantField: "name",
		},
		{
			name:      "validation error - empty file data",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - empty payload after data url header",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "data:text/plain;base64,", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - padding only",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "==", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - single pad character",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "=", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - padding only after data url header",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "data:text/plain;base64,==", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - bad base64",
			input:     CreateDocumentInput{Name: "a.txt", FileData: "%%%", FileType: "text/plain", Owner: "MOM"},
			wantField: "fileData",
		},
		{
			name:      "validation error - missing file type",
			input:     CreateDocumentInput{Name: "a.txt", FileData: b64("x"), Owner: "MOM"},
			wantField: "fileType",
		},
		{
			name:      "validation error - unknown owner",
			input:     CreateDocumentInput{Name: "a.txt", FileData: b64("x"), FileType: "text/plain", Owner: "UNCLE"},
			wantField: "user",
		},
		{
			name:  "storage error",
			input: CreateDocumentInput{Name: "a.txt", FileData: b64("hello"), FileType: "text/plain", Owner: "DAD"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:  "db error triggers rollback",
			input: CreateDocumentInput{Name: "a.txt", FileData: b64("hello"), FileType: "text/plain", Owner: "DAD"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/")
				})).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:  "db error and rollback error",
			input: CreateDocumentInput{Name: "a.txt", FileData: b64("hello"), FileType: "text/plain", Owner: "DAD"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "db save failed: db fail; rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo)
			}
			svc := NewDocumentService(mStore, mRepo, logging.Discard())

			doc, err := svc.Create(ctx, tt.input)

			switch {
			case tt.wantField != "":
				var v *ValidationError
				require.ErrorAs(t, err, &v)
				assert.Equal(t, tt.wantField, v.Field)
				assert.Nil(t, doc)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, doc)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_CreateInline(t *testing.T) {
	repo := memory.NewDocumentMemory()
	svc := NewDocumentService(nil, repo, logging.Discard())
	ctx := context.Background()

	payload := []byte{0x00, 0xff, 0x10, 0x80, 'p', 'd', 'f'}
	meta, err := svc.Create(ctx, CreateDocumentInput{
		Name:     "  scan.pdf ",
		FileData: base64.RawStdEncoding.EncodeToString(payload),
		FileType: "application/pdf",
		Owner:    "matthew",
	})
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", meta.Name)
	assert.Equal(t, model.OwnerMatthew, meta.Owner)
	assert.Nil(t, meta.Content)
	assert.Equal(t, int64(len(payload)), meta.Size)

	got, err := svc.Get(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, got.Content)
}

func TestDocumentService_ValidationCreatesNoRecord(t *testing.T) {
	repo := memory.NewDocumentMemory()
	svc := NewDocumentService(nil, repo, logging.Discard())
	ctx := context.Background()

	inputs := []CreateDocumentInput{
		{Name: "", FileData: b64("abc"), FileType: "text/plain", Owner: "MOM"},
		{Name: "a.txt", FileData: "", FileType: "text/plain", Owner: "MOM"},
		{Name: "a.txt", FileData: b64("abc"), FileType: "text/plain", Owner: "GRANDPA"},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		assert.True(t, IsValidation(err), "expected validation error for %+v", in)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDocumentService_SamuelScenario(t *testing.T) {
	svc := NewDocumentService(nil, memory.NewDocumentMemory(), logging.Discard())
	ctx := context.Background()

	meta, err := svc.Create(ctx, CreateDocumentInput{Name: "a.txt", FileData: b64("0123456789"), FileType: "text/plain", Owner: "SAMUEL"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "SAMUEL")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, meta.ID, list[0].ID)
	assert.Nil(t, list[0].Content)

	others, err := svc.List(ctx, "MOM")
	require.NoError(t, err)
	assert.Empty(t, others)

	got, err := svc.Get(ctx, meta.ID)
	require.NoError(t, err)
	assert.Len(t, got.Content, 10)
	assert.Equal(t, []byte("0123456789"), got.Content)
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(nil, mRepo, logging.Discard())

	mRepo.On("List", ctx, repository.ListQuery{}).Return([]model.Document{{ID: "1"}}, nil)
	mRepo.On("List", ctx, repository.ListQuery{Owner: model.OwnerDad}).Return([]model.Document{}, nil)

	res, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = svc.List(ctx, "dad")
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = svc.List(ctx, "COUSIN")
	assert.True(t, IsValidation(err))

	mRepo.AssertExpectations(t)
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("non uuid id is not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, logging.Discard())

		_, err := svc.Get(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing row", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, id).Return(nil, repository.ErrNotFound)
		svc := NewDocumentService(nil, mRepo, logging.Discard())

		_, err := svc.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, id).Return(nil, errors.New("conn reset"))
		svc := NewDocumentService(nil, mRepo, logging.Discard())

		_, err := svc.Get(ctx, id)
		assert.EqualError(t, err, "conn reset")
	})

	t.Run("offloaded content is fetched", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		key := storage.DocumentKey(id)
		mRepo.On("FindByID", ctx, id).Return(&model.Document{ID: id, StoragePath: key}, nil)
		mStore.On("Get", ctx, key).Return(io.NopCloser(bytes.NewReader([]byte("remote"))), storage.ObjectInfo{}, nil)
		svc := NewDocumentService(mStore, mRepo, logging.Discard())

		doc, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("remote"), doc.Content)
	})

	t.Run("offloaded fetch failure leaves content nil", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		key := storage.DocumentKey(id)
		mRepo.On("FindByID", ctx, id).Return(&model.Document{ID: id, StoragePath: key}, nil)
		mStore.On("Get", ctx, key).Return(nil, storage.ObjectInfo{}, errors.New("no such key"))
		var buf bytes.Buffer
		svc := NewDocumentService(mStore, mRepo, logging.New(&buf, time.UTC))

		doc, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, doc.Content)
		assert.Contains(t, buf.String(), "content_fetch_failed")
	})
}

func TestDocumentService_Preview(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("FindByID", ctx, id).Return(&model.Document{ID: id, Name: "p.png", FileType: "image/png", Content: []byte("png"), Owner: model.OwnerMom}, nil).Once()
	mRepo.On("FindByID", ctx, id).Return(&model.Document{ID: id, Name: "p.png", FileType: "image/png", Owner: model.OwnerMom}, nil).Once()
	svc := NewDocumentService(nil, mRepo, logging.Discard())

	p, err := svc.Preview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.Type)
	assert.Equal(t, "data:image/png;base64,"+b64("png"), p.Content)
	assert.True(t, p.PreviewAvailable)
	assert.Equal(t, model.OwnerMom, p.Owner)

	p, err = svc.Preview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", p.Content)
	assert.False(t, p.PreviewAvailable)
}

func TestDocumentService_DeleteNotIdempotent(t *testing.T) {
	svc := NewDocumentService(nil, memory.NewDocumentMemory(), logging.Discard())
	ctx := context.Background()

	meta, err := svc.Create(ctx, CreateDocumentInput{Name: "a.txt", FileData: b64("x"), FileType: "text/plain", Owner: "MOM"})
	require.NoError(t, err)

	existed, err := svc.Delete(ctx, meta.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(ctx, meta.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	existed, err = svc.Delete(ctx, "garbage")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestDocumentService_DeleteRemovesObject(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	mRepo := new(repoMocks.MockDocumentRepository)
	mStore := new(storeMocks.MockStorage)
	mRepo.On("Delete", ctx, id).Return(true, nil)
	mStore.On("Delete", ctx, storage.DocumentKey(id)).Return(errors.New("unreachable"))
	var buf bytes.Buffer
	svc := NewDocumentService(mStore, mRepo, logging.New(&buf, time.UTC))

	existed, err := svc.Delete(ctx, id)

	require.NoError(t, err)
	assert.True(t, existed)
	assert.Contains(t, buf.String(), "content_delete_failed")
	mStore.AssertExpectations(t)
}

func TestDocumentService_TransferAll(t *testing.T) {
	repo := memory.NewDocumentMemory()
	svc := NewDocumentService(nil, repo, logging.Discard())
	ctx := context.Background()

	for _, owner := range []string{"MOM", "DAD", "SAMUEL"} {
		_, err := svc.Create(ctx, CreateDocumentInput{Name: "f", FileData: b64("x"), FileType: "text/plain", Owner: owner})
		require.NoError(t, err)
	}

	n, err := svc.TransferAll(ctx, "MATTHEW")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	list, err := svc.List(ctx, "MATTHEW")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = svc.TransferAll(ctx, "")
	assert.True(t, IsValidation(err))
}
