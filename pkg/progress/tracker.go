package progress

// Snapshot 描述单个文件在某一时刻的下载进度
type Snapshot struct {
	Percent int
	Written int64
	Total   int64
}

// Reporter 负责展示进度, 不关心进度是如何计算的
type Reporter func(Snapshot)

// Factory 为每个文件创建一个新的 Reporter, 便于 Reporter 持有单文件的状态
type Factory func(name string, total int64) Reporter

// Tracker 把收到的数据块换算成百分比, 每个文件一个实例, 用完即弃
// 不是并发安全的, 同一个实例的 OnChunk 只能顺序调用
type Tracker struct {
	written   int64
	total     int64
	finalOnly bool // 为 true 时只在 100% 时报告
	report    Reporter
}

// NewTracker 创建进度跟踪器, total 为远程声明的文件大小
func NewTracker(total int64, finalOnly bool, report Reporter) *Tracker {
	if total < 0 {
		total = 0
	}
	return &Tracker{
		total:     total,
		finalOnly: finalOnly,
		report:    report,
	}
}

// OnChunk 累加本次收到的字节数并按需报告
func (t *Tracker) OnChunk(chunk []byte) {
	t.written += int64(len(chunk))
	percent := t.Percent()
	if !t.finalOnly || percent == 100 {
		t.emit(percent)
	}
}

// Finish 在传输结束后调用, 空文件不会收到任何数据块, 这里直接报告完成
func (t *Tracker) Finish() {
	if t.total == 0 && t.written == 0 {
		t.emit(100)
	}
}

// Percent 返回向下取整的完成百分比, 总大小为 0 时视为已完成
func (t *Tracker) Percent() int {
	if t.total == 0 {
		return 100
	}
	return int(t.written * 100 / t.total)
}

func (t *Tracker) Written() int64 { return t.written }

func (t *Tracker) Total() int64 { return t.total }

func (t *Tracker) emit(percent int) {
	if t.report == nil {
		return
	}
	t.report(Snapshot{Percent: percent, Written: t.written, Total: t.total})
}
