package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CSVOutput writes one CSV file per topic under basePath/folder. Column order
// is the sorted key set of the first record seen for the topic.
type CSVOutput struct {
	basePath string
	folder   string
	writers  map[string]*csv.Writer
	files    map[string]*os.File
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) (*CSVOutput, error) {
	if err := os.MkdirAll(filepath.Join(basePath, folder), os.ModePerm); err != nil {
		return nil, err
	}
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		writers:  make(map[string]*csv.Writer),
		files:    make(map[string]*os.File),
		headers:  make(map[string][]string),
	}, nil
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var record map[string]interface{}
	if err := json.Unmarshal(msg, &record); err != nil {
		return err
	}

	w, ok := c.writers[topic]
	if !ok {
		file, err := os.Create(filepath.Join(c.basePath, c.folder, topic+".csv"))
		if err != nil {
			return err
		}
		w = csv.NewWriter(file)
		c.files[topic] = file
		c.writers[topic] = w

		headers := sortedKeys(record)
		if err := w.Write(headers); err != nil {
			return err
		}
		c.headers[topic] = headers
	}

	row := make([]string, len(c.headers[topic]))
	for i, header := range c.headers[topic] {
		value, ok := record[header]
		if !ok {
			row[i] = ""
		} else {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (c *CSVOutput) Close() error {
	for topic, w := range c.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		if err := c.files[topic].Close(); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(record map[string]interface{}) []string {
	var keys []string
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
