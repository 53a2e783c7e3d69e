package apiclient

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// MultipartPayload is anything that can write itself as multipart form parts.
type MultipartPayload interface {
	WriteMultipart(w *multipart.Writer) error
}

// postMultipart streams payload to the backend through a pipe so the encoded
// form is never held in memory twice.
func (s *Session) postMultipart(ctx context.Context, endpoint, path string, payload MultipartPayload) (*http.Response, error) {
	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)

	go func() {
		if err := payload.WriteMultipart(writer); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		if err := writer.Close(); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		pipeWriter.Close()
	}()

	resp, err := s.client.do(ctx, http.MethodPost, endpoint, path, pipeReader, writer.FormDataContentType(), s.cookies)
	if err != nil {
		// Unblock the writer goroutine if the transport never drained the pipe.
		pipeReader.CloseWithError(err)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readError(resp)
	}
	return resp, nil
}
