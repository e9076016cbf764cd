package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/digitalworkshop/cutlist/internal/importer"
	"github.com/digitalworkshop/cutlist/internal/model"
	"github.com/digitalworkshop/cutlist/internal/project"
)

// loadPiecesFile imports a piece list from a CSV, Excel, or DXF file,
// logging any import warnings. Import errors on individual rows are
// reported but do not abort the load unless nothing could be read.
func loadPiecesFile(logger *log.Logger, path string) ([]model.Piece, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported piece list format %q", filepath.Ext(path))
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	for _, e := range result.Errors {
		logger.Error(e)
	}
	if len(result.Pieces) == 0 {
		return nil, fmt.Errorf("no pieces imported from %s", path)
	}
	return result.Pieces, nil
}

// parseStockSpec parses a stock flag of the form
// "label:LENGTHxWIDTH:qty[:cost]", e.g. "Plywood:2440x1220:3:52.50".
func parseStockSpec(spec string, kind model.StockKind) (model.StockUnit, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q, expected label:LxW:qty[:cost]", spec)
	}

	label := strings.TrimSpace(parts[0])
	if label == "" {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: empty label", spec)
	}

	dims := strings.SplitN(strings.ToLower(parts[1]), "x", 2)
	if len(dims) != 2 {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: dimensions must be LxW", spec)
	}
	length, err := strconv.ParseFloat(strings.TrimSpace(dims[0]), 64)
	if err != nil {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: bad length", spec)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(dims[1]), 64)
	if err != nil {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: bad width", spec)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || qty <= 0 {
		return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: bad quantity", spec)
	}

	var unit model.StockUnit
	if kind == model.KindBoard {
		unit = model.NewStockBoard(label, length, width, qty)
	} else {
		unit = model.NewStockSheet(label, length, width, qty)
	}

	if len(parts) >= 4 {
		cost, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || cost < 0 {
			return model.StockUnit{}, fmt.Errorf("invalid stock spec %q: bad cost", spec)
		}
		unit.CostPerUnit = cost
	}

	return unit, nil
}

// parsePresetSpec resolves a catalog preset flag of the form "name:qty".
func parsePresetSpec(spec string) (string, int, error) {
	idx := strings.LastIndex(spec, ":")
	if idx < 0 {
		return spec, 1, nil
	}
	name := strings.TrimSpace(spec[:idx])
	qty, err := strconv.Atoi(strings.TrimSpace(spec[idx+1:]))
	if err != nil || qty <= 0 {
		return "", 0, fmt.Errorf("invalid preset spec %q, expected name[:qty]", spec)
	}
	return name, qty, nil
}

// collectStocks assembles the stock inventory from --sheet, --board, and
// --preset flags.
func collectStocks(sheetSpecs, boardSpecs, presetSpecs []string) ([]model.StockUnit, error) {
	var stocks []model.StockUnit

	for _, spec := range sheetSpecs {
		unit, err := parseStockSpec(spec, model.KindSheet)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, unit)
	}
	for _, spec := range boardSpecs {
		unit, err := parseStockSpec(spec, model.KindBoard)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, unit)
	}

	if len(presetSpecs) > 0 {
		catalog, _, err := project.LoadOrCreateCatalog()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		for _, spec := range presetSpecs {
			name, qty, err := parsePresetSpec(spec)
			if err != nil {
				return nil, err
			}
			preset := catalog.FindStockByName(name)
			if preset == nil {
				return nil, fmt.Errorf("catalog has no preset %q (known: %s)", name, strings.Join(catalog.StockNames(), ", "))
			}
			stocks = append(stocks, preset.ToStockUnit(qty))
		}
	}

	return stocks, nil
}

// loadInputs resolves pieces, stocks, and a project name from either a
// project file or the individual piece and stock flags.
func loadInputs(logger *log.Logger, projectPath, piecesPath string, sheetSpecs, boardSpecs, presetSpecs []string) ([]model.Piece, []model.StockUnit, string, error) {
	if projectPath != "" {
		proj, err := project.LoadProject(projectPath)
		if err != nil {
			return nil, nil, "", err
		}
		name := proj.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		}
		return proj.Pieces, proj.Stocks, name, nil
	}

	if piecesPath == "" {
		return nil, nil, "", fmt.Errorf("either --project or --pieces is required")
	}

	pieces, err := loadPiecesFile(logger, piecesPath)
	if err != nil {
		return nil, nil, "", err
	}

	stocks, err := collectStocks(sheetSpecs, boardSpecs, presetSpecs)
	if err != nil {
		return nil, nil, "", err
	}
	if len(stocks) == 0 {
		return nil, nil, "", fmt.Errorf("no stock given: use --sheet, --board, or --preset")
	}

	name := strings.TrimSuffix(filepath.Base(piecesPath), filepath.Ext(piecesPath))
	return pieces, stocks, name, nil
}
