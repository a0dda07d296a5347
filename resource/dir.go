package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
)

// Image 为加载得到的原始图片数据；解码由绘制端负责。
type Image struct {
	Name string
	MIME string
	Ext  string
	Data []byte
}

// DirLoader 从本地目录读取资源，并用内容嗅探识别类型。
type DirLoader struct {
	Root string
}

// Load implements Loader.
func (d DirLoader) Load(ctx context.Context, name string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.Root, filepath.Clean(string(filepath.Separator)+name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Classify(name, data)
}

// Classify 识别字节内容的类型，无法识别时返回错误。
func Classify(name string, data []byte) (*Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("classify %q: %w", name, err)
	}
	if kind == filetype.Unknown {
		return nil, fmt.Errorf("classify %q: unknown content type", name)
	}
	return &Image{Name: name, MIME: kind.MIME.Value, Ext: kind.Extension, Data: data}, nil
}
