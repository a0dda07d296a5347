package layout

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/resource"
)

// pendingDrawing 记录一个内容尚未就绪的绘图框。
type pendingDrawing struct {
	handle *resource.Handle
	index  int // Result.Images 中的下标
}

// layoutDrawing 放置绘图对象并返回供下一个 run 接续的结束位置。
// 行内对象占用水平空间；浮动对象按定位基准放置，方形环绕时收窄本段剩余部分的文本带。
func (e *engine) layoutDrawing(flow *Flow, d *document.DrawingRun, rc runContext) float64 {
	padding := e.padding(rc)
	endX := padding
	box := ImageBox{Width: d.Width, Height: d.Height}

	if d.Anchor {
		box.X = flow.ReferenceX(d.RelativeX) + d.OffsetX
		box.Y = flow.ReferenceY(d.RelativeY) + d.OffsetY
		switch d.Wrap {
		case document.WrapSquare:
			reserveBand(flow, box.X, box.Width)
		case document.WrapTopBottom:
			if bottom := box.Y + box.Height; bottom > flow.Y() {
				flow.SetY(bottom)
			}
		}
	} else {
		box.X = flow.XMin() + padding
		box.Y = flow.Y()
		endX = padding + d.Width
		flow.SetLastCharX(box.X + box.Width)
		if rc.inParagraph.IsLast() {
			flow.Advance(d.Height)
		}
	}

	e.placeContent(box, d.Content)
	return endX
}

// reserveBand 让出浮动对象占据的一侧。
func reserveBand(flow *Flow, x, width float64) {
	mid := (flow.XMin() + flow.XMax()) / 2
	if x+width/2 <= mid {
		if d := x + width - flow.XMin(); d > 0 {
			flow.AdvanceX(d, 0)
		}
		return
	}
	if d := flow.XMax() - x; d > 0 {
		flow.AdvanceX(0, d)
	}
}

func (e *engine) placeContent(box ImageBox, h *resource.Handle) {
	idx := len(e.res.Images)
	e.res.Images = append(e.res.Images, box)
	if h == nil {
		return
	}
	e.res.Images[idx].Name = h.Name()
	if h.State() == resource.StatePending {
		e.log.Debug("Drawing content pending, deferring layout", zap.String("resource", h.Name()))
		e.res.pending = append(e.res.pending, &pendingDrawing{handle: h, index: idx})
		return
	}
	if err := e.fillDrawing(idx, h); err != nil {
		e.res.failed = multierr.Append(e.res.failed, err)
	}
}

// fillDrawing 在内容就绪后完成绘图框内部的布局。
func (e *engine) fillDrawing(idx int, h *resource.Handle) error {
	data, err := h.Data()
	if err != nil {
		e.log.Warn("Drawing content unavailable", zap.String("resource", h.Name()), zap.Error(err))
		return err
	}
	box := e.res.Images[idx]
	switch v := data.(type) {
	case *resource.Image:
		e.res.Images[idx].MIME = v.MIME
	case []document.Block:
		e.layoutBlocks(NewFlow(box.X, box.X+box.Width, box.Y), v, e.sheet.Resolver(), false)
	case *document.Document:
		e.layoutBlocks(NewFlow(box.X, box.X+box.Width, box.Y), v.Blocks, e.sheet.Resolver(), false)
	case nil:
	default:
		err := fmt.Errorf("resource %q: unsupported drawing content %T", h.Name(), data)
		e.log.Warn("Unsupported drawing content", zap.String("resource", h.Name()), zap.Error(err))
		return err
	}
	return nil
}

// Await 等待所有尚未就绪的绘图资源，并把它们的内容排进各自的绘图框。
// 嵌套内容中新出现的待定资源也会一并等待。ctx 取消时未处理的资源保持待定。
func (r *Result) Await(ctx context.Context) error {
	if r.engine == nil {
		return nil
	}
	errs := r.failed
	for len(r.pending) > 0 {
		p := r.pending[0]
		if _, err := p.handle.Wait(ctx); err != nil && ctx.Err() != nil {
			return multierr.Append(errs, err)
		}
		r.pending = r.pending[1:]
		if err := r.engine.fillDrawing(p.index, p.handle); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
