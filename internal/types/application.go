package types

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxResumeSize is the largest resume accepted, in bytes.
const MaxResumeSize int64 = 5 * 1024 * 1024

// Resume MIME types accepted for upload.
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrResumeRequired is returned when no resume file was provided.
	ErrResumeRequired = errors.New("resume is required")
	// ErrResumeTooLarge is returned when the resume exceeds MaxResumeSize.
	ErrResumeTooLarge = fmt.Errorf("resume exceeds %s", humanize.IBytes(uint64(MaxResumeSize)))
	// ErrResumeType is returned when the resume is not a PDF, DOC or DOCX file.
	ErrResumeType = errors.New("resume is not a PDF, DOC or DOCX file")
)

var resumeMessages = map[error]string{
	ErrResumeRequired: "Resume is required",
	ErrResumeTooLarge: fmt.Sprintf("File size is too large (Max %s)", humanize.IBytes(uint64(MaxResumeSize))),
	ErrResumeType:     "Only PDF, DOC, and DOCX files are allowed",
}

// ResumeMessage returns the text shown to applicants for a resume error.
// Errors other than the resume sentinels keep their own text.
func ResumeMessage(err error) string {
	for sentinel, msg := range resumeMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}

// containerTypes are generic formats that a Word document sniffs as. They are
// accepted only when the file name carries the matching extension.
var containerTypes = map[string]string{
	"application/zip":          ".docx",
	"application/x-ole-storage": ".doc",
}

var allowedResumeTypes = map[string]bool{
	MIMEPDF:  true,
	MIMEDoc:  true,
	MIMEDocx: true,
}

// ResumeFile is an uploaded resume held in memory.
type ResumeFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f *ResumeFile) Size() int64 {
	return int64(len(f.Data))
}

// Reader returns a fresh reader over the file contents.
func (f *ResumeFile) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// ReadResume reads at most MaxResumeSize bytes from r and checks the size and
// type ceilings. Reading stops one byte past the limit so oversized uploads are
// rejected without buffering them.
func ReadResume(filename string, r io.Reader) (*ResumeFile, error) {
	if r == nil || filename == "" {
		return nil, ErrResumeRequired
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrResumeRequired
	}
	if int64(len(data)) > MaxResumeSize {
		return nil, ErrResumeTooLarge
	}

	contentType, err := DetectResumeType(filename, data)
	if err != nil {
		return nil, err
	}

	return &ResumeFile{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// DetectResumeType sniffs data and returns the allowed MIME type it matches.
func DetectResumeType(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		mime := m.String()
		if allowedResumeTypes[mime] {
			return mime, nil
		}
		if want, ok := containerTypes[mime]; ok && want == ext {
			if ext == ".docx" {
				return MIMEDocx, nil
			}
			return MIMEDoc, nil
		}
	}
	return "", ErrResumeType
}

// Application is a candidate's submission for a job. It is write-only: it is
// sent to the backend and never read back.
type Application struct {
	JobID          string      `json:"jobId" validate:"required,nonblank"`
	ApplicantName  string      `json:"applicantName" validate:"required,nonblank"`
	ApplicantEmail string      `json:"applicantEmail" validate:"required,email"`
	CoverLetter    string      `json:"coverLetter,omitempty"`
	Resume         *ResumeFile `json:"-"`
}

var applicationMessages = map[string]string{
	"jobId":                "Job is required",
	"applicantName":        "Name is required",
	"applicantEmail":       "Email is required",
	"applicantEmail.email": "Invalid email",
	"coverLetter":          "Cover Letter is required",
	"resume":               resumeMessages[ErrResumeRequired],
}

// Validate checks the wire-level requirements of an application, including
// the resume size and type.
func (a *Application) Validate() error {
	errs := FieldErrors{}
	if err := validateStruct(a, applicationMessages); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		errs = fe
	}
	if a.Resume == nil || a.Resume.Size() == 0 {
		errs["resume"] = applicationMessages["resume"]
	} else if a.Resume.Size() > MaxResumeSize {
		errs["resume"] = ResumeMessage(ErrResumeTooLarge)
	} else if _, err := DetectResumeType(a.Resume.Filename, a.Resume.Data); err != nil {
		errs["resume"] = ResumeMessage(err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateForm applies the stricter rules of the public apply form, which also
// requires a cover letter.
func (a *Application) ValidateForm() error {
	errs := FieldErrors{}
	if err := a.Validate(); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		errs = fe
	}
	if strings.TrimSpace(a.CoverLetter) == "" {
		errs["coverLetter"] = applicationMessages["coverLetter"]
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplicationRecord is an application as listed by the backend for admins.
type ApplicationRecord struct {
	ID             string `json:"id"`
	JobID          string `json:"jobId"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	CoverLetter    string `json:"coverLetter,omitempty"`
	Resume         string `json:"resume,omitempty"`
}
