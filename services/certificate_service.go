package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	config "github.com/aurcc/hostel_bonafide/configs"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const verificationCodeLength = 32

// RenderTimeout bounds the only I/O-heavy step inside the approval
// transaction. A render that exceeds it rolls the whole approval back.
const RenderTimeout = 30 * time.Second

// CertificateRenderer turns a certificate context into PDF bytes. Exactly
// one implementation exists; tests substitute stubs.
type CertificateRenderer interface {
	Render(ctx context.Context, data CertificateContext) ([]byte, error)
}

var feeYearNames = map[int]string{1: "First", 2: "Second", 3: "Third", 4: "Fourth", 5: "Fifth"}

type FeeRow struct {
	SerialNumber  int
	Year          string
	Establishment string
	Mess          string
}

type ContactBlock struct {
	Name        string
	Designation string
	PhoneNumber string
	Email       string
}

type AccountBlock struct {
	BankName      string
	BranchName    string
	IFSCCode      string
	AccountNumber string
	AccountName   string
}

// CertificateContext is the structured input handed to the renderer.
type CertificateContext struct {
	StudentName        string
	RegisterNumber     string
	Gender             string
	DegreeDept         string
	YearOfStudy        string
	HostelName         string
	Reason             string
	CurrentYear        int
	NextYear           int
	FeeRows            []FeeRow
	TotalEstablishment string
	TotalMess          string
	Establishment      *AccountBlock
	Mess               *AccountBlock
	Warden             *ContactBlock
	Dean               *ContactBlock
	QRCodeDataURI      string
	LogoDataURI        string
	DigitalSignature   string
	CertificateNumber  string
	CertificateDate    string
}

// GenerateVerificationCode derives the public verification token. The
// server-side signature key makes the code infeasible to forge, and the
// one-way digest leaks nothing about the student.
func GenerateVerificationCode(requestID uuid.UUID, registerNumber string) string {
	data := fmt.Sprintf("%s%s%s", requestID, registerNumber, config.Config("BONAFIDE_SIGNATURE_KEY"))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:verificationCodeLength]
}

func generateDigitalSignature(certificateNumber, registerNumber, verificationCode string) string {
	sum := sha256.Sum256([]byte(certificateNumber + registerNumber + verificationCode))
	return hex.EncodeToString(sum[:])
}

// nextSequenceNumber draws the next certificate number for the given year.
// The UPDATE takes a row lock, so concurrent approvals in the same year
// serialize here and a rollback returns the number to the pool.
func nextSequenceNumber(tx *gorm.DB, year int) (int, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CertificateSequence{Year: year, LastNumber: 0}).Error
	if err != nil {
		return 0, err
	}

	result := tx.Model(&models.CertificateSequence{}).
		Where("year = ?", year).
		Update("last_number", gorm.Expr("last_number + 1"))
	if result.Error != nil {
		return 0, result.Error
	}

	var seq models.CertificateSequence
	if err := tx.First(&seq, "year = ?", year).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

// BuildCertificateContext assembles everything the renderer needs: student
// academics, the fee schedule for every year of the course, remittance
// accounts, contact blocks, and the QR-encoded verification URL.
func BuildCertificateContext(db *gorm.DB, request *models.BonafideRequest, certificateNumber, verificationCode string, issuedAt time.Time) (CertificateContext, error) {
	student := request.Student

	academicYear, err := GetAcademicYear(db)
	if err != nil {
		return CertificateContext{}, err
	}

	data := CertificateContext{
		StudentName:      student.Name,
		RegisterNumber:   student.RegisterNumber,
		Gender:           student.Gender,
		YearOfStudy:      student.YearDisplay(),
		Reason:           request.ReasonDisplay(),
		CurrentYear:      academicYear.CurrentYear,
		NextYear:         academicYear.CurrentYear + 1,
		DegreeDept:       strings.TrimSpace(student.Degree + " " + student.Department.Name),
		DigitalSignature: generateDigitalSignature(certificateNumber, student.RegisterNumber, verificationCode),
		CertificateDate:  issuedAt.Format("02.01.2006"),
	}

	parts := strings.Split(certificateNumber, "/")
	data.CertificateNumber = fmt.Sprintf("AURCC/HOSTEL/BONAFIDE/%d/%s", issuedAt.Year(), parts[len(parts)-1])

	if student.Hostel != nil {
		data.HostelName = student.Hostel.Name

		var warden models.Warden
		if err := db.First(&warden, "hostel_id = ?", student.Hostel.ID).Error; err == nil {
			data.Warden = &ContactBlock{
				Name:        warden.Name,
				Designation: warden.Designation,
				PhoneNumber: warden.PhoneNumber,
				Email:       warden.Email,
			}
		}

		var accounts []models.BankAccount
		db.Where("hostel_id = ? AND is_active = ?", student.Hostel.ID, true).Find(&accounts)
		for _, account := range accounts {
			block := &AccountBlock{
				BankName:      account.BankName,
				BranchName:    account.BranchName,
				IFSCCode:      account.IFSCCode,
				AccountNumber: account.AccountNumber,
				AccountName:   account.AccountName,
			}
			switch account.AccountType {
			case models.AccountTypeEstablishment:
				data.Establishment = block
			case models.AccountTypeMess:
				data.Mess = block
			}
		}

		courseYears := student.Department.CourseDurationYears
		totalEstablishment := 0.0
		totalMess := 0.0
		for yearNum := 1; yearNum <= courseYears; yearNum++ {
			name, ok := feeYearNames[yearNum]
			if !ok {
				name = fmt.Sprintf("%dth", yearNum)
			}
			data.FeeRows = append(data.FeeRows, FeeRow{
				SerialNumber:  yearNum,
				Year:          name + " Year",
				Establishment: formatAmount(student.Hostel.EstablishmentFeesPerYear),
				Mess:          formatAmount(student.Hostel.MessFeesPerYear),
			})
			totalEstablishment += student.Hostel.EstablishmentFeesPerYear
			totalMess += student.Hostel.MessFeesPerYear
		}
		data.TotalEstablishment = formatAmount(totalEstablishment)
		data.TotalMess = formatAmount(totalMess)
	}

	var dean models.DeanProfile
	if err := db.First(&dean).Error; err == nil {
		data.Dean = &ContactBlock{
			Name:        dean.Name,
			Designation: dean.Designation,
			PhoneNumber: dean.PhoneNumber,
			Email:       dean.Email,
		}
	}

	baseURL := config.Config("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	qrPNG, err := qrcode.Encode(fmt.Sprintf("%s/verify/%s", baseURL, verificationCode), qrcode.Medium, 256)
	if err != nil {
		return CertificateContext{}, err
	}
	data.QRCodeDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)

	if logoPath := config.Config("CERTIFICATE_LOGO_PATH"); logoPath != "" {
		if logoBytes, err := os.ReadFile(logoPath); err == nil {
			data.LogoDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(logoBytes)
		}
	}

	return data, nil
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.0f", amount)
}

// ChromeRenderer renders the certificate HTML template to PDF through
// headless Chrome.
type ChromeRenderer struct {
	TemplatePath string
}

func NewChromeRenderer() *ChromeRenderer {
	templatePath := config.Config("CERTIFICATE_TEMPLATE_PATH")
	if templatePath == "" {
		templatePath = "templates/bonafide_certificate.html"
	}
	return &ChromeRenderer{TemplatePath: templatePath}
}

func (r *ChromeRenderer) Render(ctx context.Context, data CertificateContext) ([]byte, error) {
	tmpl, err := template.ParseFiles(r.TemplatePath)
	if err != nil {
		return nil, err
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return nil, err
	}

	chromeCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err = chromedp.Run(chromeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, renderedHTML.String()).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// saveCertificateFile writes the rendered PDF under the storage directory
// and returns its path.
func saveCertificateFile(certificateNumber string, pdf []byte) (string, error) {
	storageDir := config.Config("CERTIFICATE_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "storage/bonafide_certificates"
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("bonafide_%s.pdf", strings.ReplaceAll(certificateNumber, "/", "_"))
	path := filepath.Join(storageDir, filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// VerificationResult is the public-safe summary returned by the verify
// endpoint. Remarks, reviewer identities, and the code itself stay private.
type VerificationResult struct {
	Valid             bool       `json:"valid"`
	CertificateNumber string     `json:"certificate_number,omitempty"`
	StudentName       string     `json:"student_name,omitempty"`
	RegisterNumber    string     `json:"register_number,omitempty"`
	Department        string     `json:"department,omitempty"`
	IssuedDate        *time.Time `json:"issued_date,omitempty"`
	Status            string     `json:"status,omitempty"`
}

// VerifyCertificate resolves a verification code to a certificate summary.
// Unknown codes yield {valid:false} with no further detail.
func VerifyCertificate(db *gorm.DB, verificationCode string) (VerificationResult, error) {
	var request models.BonafideRequest
	err := db.Preload("Student.Department").
		First(&request, "verification_code = ?", verificationCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerificationResult{Valid: false}, nil
		}
		return VerificationResult{}, err
	}

	result := VerificationResult{
		Valid:          true,
		StudentName:    request.Student.Name,
		RegisterNumber: request.Student.RegisterNumber,
		Department:     request.Student.Department.Name,
		IssuedDate:     request.CertificateIssuedDate,
		Status:         request.Status,
	}
	if request.CertificateNumber != nil {
		result.CertificateNumber = *request.CertificateNumber
	}
	return result, nil
}
