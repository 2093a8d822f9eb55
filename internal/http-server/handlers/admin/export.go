package admin

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/xuri/excelize/v2"
)

const (
	codesSheet    = "TeacherCodes"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportLayout  = "2006-01-02 15:04"
)

var exportHeader = []interface{}{"Code", "Status", "Used By", "Used At", "Sent To", "Sent At", "Expires At"}

// ExportCodes streams the school's teacher codes as an Excel workbook.
func ExportCodes(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		adminEmail := pathParam(r, "admin_email")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Email("admin", adminEmail),
		)

		if handler == nil {
			logger.Error("admin service not available")
			http.Error(w, "Export not available", http.StatusServiceUnavailable)
			return
		}

		license, codes, err := handler.ExportCodes(r.Context(), adminEmail)
		if err != nil {
			logger.Debug("export codes", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		f, err := codesWorkbook(codes)
		if err != nil {
			logger.Error("build workbook", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		defer func() {
			_ = f.Close()
		}()

		w.Header().Set("Content-Type", xlsxMediaType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(license.SchoolName)))
		w.WriteHeader(http.StatusOK)
		if err = f.Write(w); err != nil {
			logger.Error("failed to write excel file", sl.Err(err))
			return
		}

		logger.With(slog.Int("codes", len(codes))).Info("teacher codes exported")
	}
}

func codesWorkbook(codes []entity.AccessCode) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(codesSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err = f.SetSheetRow(codesSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, code := range codes {
		row := []interface{}{
			code.Code,
			codeStatus(&code),
			code.UsedBy,
			formatTime(code.UsedAt),
			code.SentTo,
			formatTime(code.SentAt),
			code.ExpiresAt.Format(exportLayout),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err = f.SetSheetRow(codesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func codeStatus(code *entity.AccessCode) string {
	switch {
	case code.Used && code.EmailSent:
		return "sent"
	case code.Used:
		return "used"
	default:
		return "available"
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportLayout)
}

func exportFilename(school string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, school)
	return name + "_teacher_codes.xlsx"
}
