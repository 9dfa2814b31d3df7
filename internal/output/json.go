package output

import (
	"os"
	"path/filepath"
)

// JSONOutput writes newline-delimited JSON, one file per topic.
type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) (*JSONOutput, error) {
	if err := os.MkdirAll(filepath.Join(basePath, folder), os.ModePerm); err != nil {
		return nil, err
	}
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}, nil
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	file, ok := j.files[topic]
	if !ok {
		var err error
		file, err = os.Create(filepath.Join(j.basePath, j.folder, topic+".json"))
		if err != nil {
			return err
		}
		j.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
