package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/cv-screener/internal/screening"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Candidates"
	skillsSheet     = "Skills"
	companiesSheet  = "Companies"
)

var (
	candidateHeaders = []string{
		"Candidate ID", "Name", "Role", "Overall Score", "Recommendation", "Career Gap",
		"Job Title Match", "Skills Match", "Certifications", "Education", "Experience", "Skill Score",
		"Current CTC", "Expected CTC", "Location", "Screened On",
	}
	skillHeaders   = []string{"Candidate ID", "Skill", "Years", "Depth Score", "Evidence"}
	companyHeaders = []string{"Candidate ID", "Company", "Tier", "Tenure (months)", "Rationale"}
)

// ToExcel writes the analyses to an .xlsx workbook and returns the final
// path. The suffix is appended when missing.
func ToExcel(outputs []*screening.AnalysisOutput, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("output path is required")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, sheet := range []string{candidatesSheet, skillsSheet, companiesSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("create header style: %w", err)
	}

	steps := []struct {
		name string
		fill func(*excelize.File, []*screening.AnalysisOutput, int) error
	}{
		{summarySheet, writeSummary},
		{candidatesSheet, writeCandidates},
		{skillsSheet, writeSkills},
		{companiesSheet, writeCompanies},
	}
	for _, step := range steps {
		if err := step.fill(f, outputs, header); err != nil {
			return "", fmt.Errorf("fill %s sheet: %w", step.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, outputs []*screening.AnalysisOutput, style int) error {
	counts := make(map[screening.Recommendation]int)
	total := 0
	for _, out := range outputs {
		counts[out.Basic.Recommendation]++
		total += out.Basic.OverallScore
	}

	average := 0.0
	if len(outputs) > 0 {
		average = float64(total) / float64(len(outputs))
	}

	if err := writeHeader(f, summarySheet, []string{"Metric", "Value"}, style); err != nil {
		return err
	}

	rows := [][]any{
		{"Candidates", len(outputs)},
		{"Average score", average},
		{string(screening.StrongHire), counts[screening.StrongHire]},
		{string(screening.Consider), counts[screening.Consider]},
		{string(screening.Weak), counts[screening.Weak]},
		{string(screening.Reject), counts[screening.Reject]},
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 20)
}

func writeCandidates(f *excelize.File, outputs []*screening.AnalysisOutput, style int) error {
	if err := writeHeader(f, candidatesSheet, candidateHeaders, style); err != nil {
		return err
	}

	for i, out := range outputs {
		b, r := out.Basic, out.Summary.Relevancy
		row := []any{
			b.CandidateID, b.Name, b.RoleAppliedFor, b.OverallScore, string(b.Recommendation), b.CareerGap,
			r.JobTitleMatch, r.SkillsMatch, r.CertificationsMatch, r.EducationMatch, r.ExperienceMatch, r.SkillScore,
			b.CurrentCTC, b.ExpectedCTC, b.Location, b.ScreenedOn,
		}
		if err := writeRow(f, candidatesSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(candidatesSheet, "A", "C", 24)
}

func writeSkills(f *excelize.File, outputs []*screening.AnalysisOutput, style int) error {
	if err := writeHeader(f, skillsSheet, skillHeaders, style); err != nil {
		return err
	}

	row := 2
	for _, out := range outputs {
		for _, skill := range out.Summary.Skills {
			values := []any{out.Basic.CandidateID, skill.Name, skill.YearsExperience, skill.DepthScore, strings.Join(skill.Evidence, "\n")}
			if err := writeRow(f, skillsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(skillsSheet, "E", "E", 80)
}

func writeCompanies(f *excelize.File, outputs []*screening.AnalysisOutput, style int) error {
	if err := writeHeader(f, companiesSheet, companyHeaders, style); err != nil {
		return err
	}

	row := 2
	for _, out := range outputs {
		for _, company := range out.Summary.Companies {
			values := []any{out.Basic.CandidateID, company.Name, string(company.Tier), company.TenureMonths, company.Rationale}
			if err := writeRow(f, companiesSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(companiesSheet, "E", "E", 60)
}
