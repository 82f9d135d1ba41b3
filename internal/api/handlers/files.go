// files.go — HTTP handlers для файловых операций File API.
// Upload, Download, Delete, пакетное получение метаданных.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/bigkaa/goartstore/file-api/internal/api/errors"
	"github.com/bigkaa/goartstore/file-api/internal/api/generated"
	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/service"
)

const (
	// multipartMemory — объём формы, удерживаемый в памяти; остальное уходит во временные файлы.
	multipartMemory = 32 << 20
	// multipartOverhead — запас на заголовки и текстовые поля формы сверх размера файла.
	multipartOverhead = 1 << 20
	// maxMetasBody — ограничение тела запроса POST /files/metas.
	maxMetasBody = 4 << 20
)

// Заголовки ответа на скачивание.
const (
	HeaderFileName   = "X-File-Name"
	HeaderFileSize   = "X-File-Size"
	HeaderCreateTime = "X-Create-Time"
)

// Поля multipart-формы загрузки.
const (
	fieldName        = "name"
	fieldContentType = "contentType"
	fieldMeta        = "meta"
	fieldSource      = "source"
	fieldExpireTime  = "expireTime"
	fieldContent     = "content"
)

// FilesHandler — обработчик файловых endpoints.
type FilesHandler struct {
	uploadSvc   *service.UploadService
	downloadSvc *service.DownloadService
	deleteSvc   *service.DeleteService
	metasSvc    *service.MetasService
	maxFileSize int64
	logger      *slog.Logger
}

// NewFilesHandler создаёт обработчик файловых endpoints.
// maxFileSize — максимальный размер загружаемого файла в байтах.
func NewFilesHandler(
	uploadSvc *service.UploadService,
	downloadSvc *service.DownloadService,
	deleteSvc *service.DeleteService,
	metasSvc *service.MetasService,
	maxFileSize int64,
	logger *slog.Logger,
) *FilesHandler {
	return &FilesHandler{
		uploadSvc:   uploadSvc,
		downloadSvc: downloadSvc,
		deleteSvc:   deleteSvc,
		metasSvc:    metasSvc,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "files_handler")),
	}
}

// UploadFile обрабатывает POST /files.
// Multipart form: name, contentType, meta, source, content (обязательно),
// expireTime (опционально, RFC 3339).
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.FileTooLarge(w, fmt.Sprintf("Размер запроса превышает максимум %d байт", h.maxFileSize))
			return
		}
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form, problems := parseUploadForm(r.MultipartForm)
	if len(problems) > 0 {
		apierrors.ValidationErrors(w, problems)
		return
	}

	if form.header.Size > h.maxFileSize {
		apierrors.FileTooLarge(w, fmt.Sprintf("Размер файла %d байт превышает максимум %d байт", form.header.Size, h.maxFileSize))
		return
	}

	content, err := form.header.Open()
	if err != nil {
		h.logger.Error("Ошибка чтения части content", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка чтения содержимого файла")
		return
	}
	defer content.Close()

	token, err := h.uploadSvc.Upload(r.Context(), service.UploadParams{
		Content:     content,
		Filename:    form.name,
		ContentType: form.contentType,
		Size:        form.header.Size,
		ExpireTime:  form.expireTime,
		Meta:        &form.meta,
		Source:      form.source,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, generated.UploadResponse{Token: token})
}

// uploadForm — разобранные поля формы загрузки.
type uploadForm struct {
	name        string
	contentType string
	meta        string
	source      string
	expireTime  *time.Time
	header      *multipart.FileHeader
}

// parseUploadForm извлекает поля формы. Возвращает по одному сообщению
// на каждое отсутствующее или некорректное поле.
func parseUploadForm(f *multipart.Form) (uploadForm, []string) {
	var form uploadForm
	var problems []string

	value := func(field string) string {
		if vs := f.Value[field]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
		problems = append(problems, "Параметр "+field+" отсутствует")
		return ""
	}

	form.name = value(fieldName)
	form.contentType = value(fieldContentType)
	form.meta = value(fieldMeta)
	form.source = value(fieldSource)

	if files := f.File[fieldContent]; len(files) > 0 {
		form.header = files[0]
	} else {
		problems = append(problems, "Параметр "+fieldContent+" отсутствует")
	}

	if vs := f.Value[fieldExpireTime]; len(vs) > 0 && vs[0] != "" {
		t, err := time.Parse(time.RFC3339, vs[0])
		if err != nil {
			problems = append(problems, "Параметр "+fieldExpireTime+": ожидается дата в формате RFC 3339")
		} else {
			t = t.UTC()
			form.expireTime = &t
		}
	}

	return form, problems
}

// GetFilesMetas обрабатывает POST /files/metas.
func (h *FilesHandler) GetFilesMetas(w http.ResponseWriter, r *http.Request) {
	var req generated.GetFilesMetasJSONRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMetasBody)).Decode(&req); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	files, err := h.metasSvc.GetMetas(r.Context(), req.Tokens)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := generated.FilesMetasResponse{Files: make(map[string]generated.FileMeta, len(files))}
	for token, rec := range files {
		resp.Files[token] = domainToAPIMeta(rec)
	}

	writeJSON(w, http.StatusOK, resp)
}

// DownloadFile обрабатывает GET /file/{token}.
// Для seekable-потоков поддерживает Range requests через http.ServeContent.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request, token generated.Token) {
	rec, body, err := h.downloadSvc.Download(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer body.Close()

	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := w.Header()
	header.Set(HeaderFileName, rec.Filename)
	header.Set(HeaderFileSize, strconv.FormatInt(rec.Size, 10))
	header.Set(HeaderCreateTime, rec.CreateTime.UTC().Format(model.CreateTimeLayout))
	header.Set("Content-Type", contentType)
	if disposition := mime.FormatMediaType("attachment", map[string]string{"filename": rec.Filename}); disposition != "" {
		header.Set("Content-Disposition", disposition)
	} else {
		header.Set("Content-Disposition", "attachment")
	}

	if rs, ok := body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, rec.Filename, rec.CreateTime, rs)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("Передача файла прервана",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
	}
}

// DeleteFile обрабатывает DELETE /file/{token}.
func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request, token generated.Token) {
	if err := h.deleteSvc.Delete(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// domainToAPIMeta преобразует доменную запись в API-модель.
func domainToAPIMeta(rec *model.FileRecord) generated.FileMeta {
	return generated.FileMeta{
		Token:       rec.Token,
		FileName:    rec.Filename,
		Size:        rec.Size,
		ContentType: rec.ContentType,
		CreateTime:  rec.CreateTime.UTC(),
		Meta:        rec.Meta,
	}
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
