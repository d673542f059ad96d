package clientcli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, result UploadResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatList(w io.Writer, result *ListResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs aligned text tables.
type HumanFormatter struct {
	Quiet bool
}

func (f *HumanFormatter) FormatUpload(w io.Writer, r UploadResult) error {
	if r.Err != nil {
		_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
		return nil
	}
	if f.Quiet {
		return nil
	}

	_, _ = fmt.Fprintf(w, "Uploaded %s: %s (%s)\n", r.Kind, r.Filename, formatSize(r.Size))
	if r.ID != 0 {
		_, _ = fmt.Fprintf(w, "  ID:  %d\n", r.ID)
		_, _ = fmt.Fprintf(w, "  URL: %s\n", r.URL)
	}
	return nil
}

func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s %d - %v\n", r.Kind, r.ID, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted %s %d\n", r.Kind, r.ID)
		}
	}
	return nil
}

func (f *HumanFormatter) FormatList(w io.Writer, result *ListResult) error {
	if result.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No media found")
		return nil
	}

	if result.Images != nil {
		table := newTable(w, []string{"ID", "FILENAME", "SIZE", "DIMENSIONS", "TYPE", "CONTENT", "URL"})
		for _, img := range result.Images {
			table.Append([]string{
				strconv.FormatInt(img.ID, 10),
				img.Filename,
				formatSize(img.Size),
				fmt.Sprintf("%dx%d", img.Width, img.Height),
				img.ImageType,
				strconv.FormatInt(img.ContentID, 10),
				img.OriginalURL,
			})
		}
		table.Render()
	}

	if result.Videos != nil {
		table := newTable(w, []string{"ID", "TITLE", "SIZE", "DURATION", "CONTENT", "PATH"})
		for _, v := range result.Videos {
			table.Append([]string{
				strconv.FormatInt(v.ID, 10),
				v.Title,
				formatSize(v.SizeBytes),
				formatDuration(v.DurationSeconds),
				strconv.FormatInt(v.ContentID, 10),
				v.GCSPath,
			})
		}
		table.Render()
	}

	_, _ = fmt.Fprintf(w, "\n%d item(s) (%s total)\n", result.Len(), formatSize(result.TotalSize()))
	return nil
}

func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	table := newTable(w, []string{"", "NAME", "ENDPOINT", "STORAGE"})
	for _, p := range profiles {
		marker := ""
		if p.Name == defaultName {
			marker = "*"
		}
		table.Append([]string{marker, p.Name, p.Endpoint, p.Storage})
	}
	table.Render()
	return nil
}

func (f *HumanFormatter) FormatProfileShow(w io.Writer, p Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s\n", p.Name)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", p.Endpoint)
	if p.Storage != "" {
		_, _ = fmt.Fprintf(w, "Storage:  %s\n", p.Storage)
	}
	_, _ = fmt.Fprintf(w, "Default:  %t\n", isDefault)
	return nil
}

// JSONFormatter outputs indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatUpload(w io.Writer, r UploadResult) error {
	type jsonResult struct {
		UploadResult
		Error string `json:"error,omitempty"`
	}

	out := jsonResult{UploadResult: r}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return writeJSON(w, out)
}

func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	type jsonResult struct {
		Kind    Kind   `json:"kind"`
		ID      int64  `json:"id"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{Kind: r.Kind, ID: r.ID, Deleted: r.Deleted}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatList(w io.Writer, result *ListResult) error {
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Storage  string `json:"storage,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i, p := range profiles {
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Storage:  p.Storage,
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

func (f *JSONFormatter) FormatProfileShow(w io.Writer, p Profile, isDefault bool) error {
	p.Default = isDefault
	return writeJSON(w, struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Storage  string `json:"storage,omitempty"`
		Default  bool   `json:"default"`
	}{p.Name, p.Endpoint, p.Storage, p.Default})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
