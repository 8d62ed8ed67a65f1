package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"yashubustudio/questioncategorizer/categorizer"
)

const windowTitle = "Question Categorizer"

var importExtensions = []string{".xlsx", ".xlsm", ".csv", ".tsv"}

type uiState struct {
	service    *categorizer.Service
	logger     zerolog.Logger
	configPath string

	w             fyne.Window
	log           *widget.Entry
	status        *widget.Label
	hover         *widget.Label
	progress      *widget.ProgressBarInfinite
	questionCount *widget.Label
	categoryCount *widget.Label
	emptyChart    *widget.Label
	pie           *PieChart
	legend        *legend
	statusBind    binding.String

	categorizeBtn *widget.Button
	exportBtn     *widget.Button
	questionsBtn  *widget.Button
	categoriesBtn *widget.Button
	settingsBtn   *widget.Button

	detail        dialog.Dialog
	detailFor     string
	detailResults []categorizer.Result

	unsubscribe func()
}

func buildUI(a fyne.App, svc *categorizer.Service, configPath string, logBind binding.String, logger zerolog.Logger) *uiState {
	u := &uiState{
		service:    svc,
		logger:     logger.With().Str("component", "ui").Logger(),
		configPath: configPath,
	}
	u.w = a.NewWindow(windowTitle)

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Ready")

	u.log = widget.NewEntryWithData(logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("Log")
	u.log.Disable()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.status.Wrapping = fyne.TextWrapWord
	u.hover = widget.NewLabel("")
	u.progress = widget.NewProgressBarInfinite()
	u.progress.Stop()
	u.progress.Hide()
	u.questionCount = widget.NewLabel("")
	u.categoryCount = widget.NewLabel("")

	u.questionsBtn = widget.NewButtonWithIcon("Upload Questions", theme.FolderOpenIcon(), func() {
		u.onUpload(categorizer.KindQuestions)
	})
	u.categoriesBtn = widget.NewButtonWithIcon("Upload Categories", theme.FolderOpenIcon(), func() {
		u.onUpload(categorizer.KindCategories)
	})
	u.categorizeBtn = widget.NewButtonWithIcon("Categorize Questions", theme.ConfirmIcon(), func() { u.onCategorize() })
	u.categorizeBtn.Importance = widget.HighImportance
	u.exportBtn = widget.NewButtonWithIcon("Export CSV", theme.DocumentSaveIcon(), func() { u.onExport() })
	u.settingsBtn = widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), func() { u.openSettings() })

	u.pie = NewPieChart(u.selectCategory)
	u.pie.OnHover = func(label string) { u.hover.SetText(label) }
	u.legend = newLegend(u.selectCategory)
	u.emptyChart = widget.NewLabelWithStyle("No results yet.", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	left := container.NewVBox(
		widget.NewLabelWithStyle("Input", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, u.questionsBtn, u.categoriesBtn),
		container.NewGridWithColumns(2, u.questionCount, u.categoryCount),
		u.categorizeBtn,
		container.NewGridWithColumns(2, u.exportBtn, u.settingsBtn),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Progress", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.progress,
		u.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Legend", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.legend.box,
	)
	logPane := container.NewBorder(
		widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, u.log)
	leftSplit := container.NewVSplit(container.NewVScroll(left), logPane)
	leftSplit.Offset = 0.7

	chart := container.NewBorder(nil, u.hover, nil, nil, container.NewStack(u.pie, container.NewCenter(u.emptyChart)))
	split := container.NewHSplit(leftSplit, chart)
	split.Offset = 0.35

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1080, 720))

	u.unsubscribe = svc.Store().Subscribe(func(state categorizer.State) {
		fyne.Do(func() { u.render(state) })
	})
	u.w.SetOnClosed(u.unsubscribe)
	u.render(svc.Store().Snapshot())
	return u
}

// render mirrors the store state onto the widgets. Must run on the main goroutine.
func (u *uiState) render(state categorizer.State) {
	u.questionCount.SetText(fmt.Sprintf("Questions: %d", len(state.Questions)))
	u.categoryCount.SetText(fmt.Sprintf("Categories: %d", len(state.Categories)))

	if state.Loading || !state.Ready() {
		u.categorizeBtn.Disable()
	} else {
		u.categorizeBtn.Enable()
	}
	if state.Loading {
		u.questionsBtn.Disable()
		u.categoriesBtn.Disable()
	} else {
		u.questionsBtn.Enable()
		u.categoriesBtn.Enable()
	}
	if state.Loading || len(state.Results) == 0 {
		u.exportBtn.Disable()
	} else {
		u.exportBtn.Enable()
	}

	if state.Loading {
		u.progress.Show()
		u.progress.Start()
	} else {
		u.progress.Stop()
		u.progress.Hide()
	}
	u.setStatus(statusText(state))

	agg := state.Aggregation()
	segs := categorizer.Segments(agg)
	u.pie.SetSegments(segs)
	u.legend.update(segs)
	if agg.Empty() {
		u.emptyChart.Show()
	} else {
		u.emptyChart.Hide()
	}

	u.renderDetail(state)
}

func (u *uiState) renderDetail(state categorizer.State) {
	if !state.DetailOpen {
		u.closeDetailDialog()
		return
	}
	if u.detail != nil && u.detailFor == state.Selected && sameResults(u.detailResults, state.Results) {
		return
	}
	u.closeDetailDialog()

	var d dialog.Dialog
	d = newDetailDialog(u.w, state.Selected, state.Detail(), func() {
		if u.detail != d {
			return
		}
		u.detail = nil
		u.service.Store().CloseDetail()
	})
	u.detail = d
	u.detailFor = state.Selected
	u.detailResults = state.Results
	d.Show()
}

func (u *uiState) closeDetailDialog() {
	if u.detail == nil {
		return
	}
	d := u.detail
	u.detail = nil
	d.Hide()
}

func (u *uiState) selectCategory(name string) {
	u.logger.Debug().Str("category", name).Msg("category selected")
	u.service.Store().Select(name)
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) onUpload(kind categorizer.Kind) {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		go func() {
			defer rc.Close()
			if _, err := u.service.Import(rc.URI().Name(), rc, kind); err != nil {
				fyne.Do(func() {
					u.setStatus(fmt.Sprintf("Import failed: %v", err))
					dialog.ShowError(err, u.w)
				})
			}
		}()
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter(importExtensions))
	fd.Show()
}

func (u *uiState) onCategorize() {
	u.categorizeBtn.Disable()
	go func() {
		_, err := u.service.Categorize(context.Background())
		if err == nil || errors.Is(err, categorizer.ErrSuperseded) {
			return
		}
		fyne.Do(func() {
			dialog.ShowError(err, u.w)
		})
	}()
}

func (u *uiState) onExport() {
	results := u.service.Store().Snapshot().Results
	if len(results) == 0 {
		dialog.ShowInformation("Export", "There are no results to export.", u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := categorizer.WriteResultsCSV(uc, results); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.logger.Info().Int("rows", len(results)).Str("path", uc.URI().Path()).Msg("results exported")
	}, u.w)
	fd.SetFileName("results.csv")
	fd.Show()
}

func (u *uiState) openSettings() {
	cfg := u.service.Config()
	questionEntry := widget.NewEntry()
	questionEntry.SetText(strings.Join(cfg.Columns.Question, ", "))
	categoryEntry := widget.NewEntry()
	categoryEntry.SetText(strings.Join(cfg.Columns.Category, ", "))
	reconcileCheck := widget.NewCheck("Match results to questions by text", nil)
	reconcileCheck.SetChecked(cfg.ReconcileByText)

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "Question columns", Widget: questionEntry, HintText: "Comma separated, first match wins"},
		{Text: "Category columns", Widget: categoryEntry, HintText: "Comma separated, first match wins"},
		{Text: "Reconcile", Widget: reconcileCheck},
	}}

	dialog.NewCustomConfirm("Settings", "OK", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		if err := u.applySettings(questionEntry.Text, categoryEntry.Text, reconcileCheck.Checked); err != nil {
			dialog.ShowError(err, u.w)
		}
	}, u.w).Show()
}

// applySettings updates the service configuration and persists it to the config file.
func (u *uiState) applySettings(questionColumns, categoryColumns string, reconcile bool) error {
	cfg := u.service.Config()
	cfg.Columns.Question = splitList(questionColumns)
	cfg.Columns.Category = splitList(categoryColumns)
	cfg.ReconcileByText = reconcile
	if err := u.service.UpdateConfig(cfg); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	cfg = u.service.Config()
	if err := categorizer.SaveConfig(u.configPath, cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	u.logger.Info().
		Strs("question_columns", cfg.Columns.Question).
		Strs("category_columns", cfg.Columns.Category).
		Bool("reconcile", cfg.ReconcileByText).
		Msg("settings updated")
	return nil
}

func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func statusText(state categorizer.State) string {
	switch {
	case state.Loading:
		return fmt.Sprintf("Categorizing %d questions...", len(state.Questions))
	case state.Err != nil:
		return fmt.Sprintf("Categorization failed: %v", state.Err)
	case len(state.Results) > 0:
		agg := state.Aggregation()
		return fmt.Sprintf("Categorized %d questions into %d categories", agg.Total, len(agg.Categories))
	case state.Ready():
		return "Ready to categorize"
	default:
		return "Upload questions and categories to begin"
	}
}

func sameResults(a, b []categorizer.Result) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
