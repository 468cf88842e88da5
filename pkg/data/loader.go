package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"datacleaner/pkg/frame"
)

// MissingTokens are the cell values read as missing.
var MissingTokens = []string{"", "NA", "NaN", "nan", "null"}

// ReadCSV parses a CSV stream with a header row into a frame, detecting
// column types.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bufio.NewReader(r),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return df, errors.Wrap(df.Err, "read csv")
	}
	return df, nil
}

// LoadCSV reads the CSV file at path.
func LoadCSV(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes df with a header row. Floats use the shortest
// representation that round-trips; missing cells are left empty.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	writer := csv.NewWriter(w)
	names := df.Names()
	if err := writer.Write(names); err != nil {
		return errors.Wrap(err, "write header")
	}

	cols := make([][]string, len(names))
	for j, name := range names {
		col := df.Col(name)
		missing := frame.Missing(col)
		var cells []string
		if frame.IsNumeric(col) {
			vals := col.Float()
			cells = make([]string, len(vals))
			for i, v := range vals {
				if !math.IsNaN(v) {
					cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			}
		} else {
			cells = col.Records()
			for i := range cells {
				if missing[i] {
					cells[i] = ""
				}
			}
		}
		cols[j] = cells
	}

	row := make([]string, len(names))
	for i := 0; i < df.Nrow(); i++ {
		for j := range cols {
			row[j] = cols[j][i]
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

// SaveCSV writes df to the file at path, replacing it.
func SaveCSV(path string, df dataframe.DataFrame) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteCSV(file, df); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
