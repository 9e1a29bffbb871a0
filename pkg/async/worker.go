package async

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fansite/pkg/logger"
)

// Task 表示一个异步任务
type Task struct {
	ID       string
	Name     string
	Handler  func(ctx context.Context) error
	Timeout  time.Duration
	RetryMax int
}

// Result 表示任务执行结果
type Result struct {
	TaskID    string
	Name      string
	Completed bool
	Error     error
	StartTime time.Time
	EndTime   time.Time
}

// Stats 工作器统计
type Stats struct {
	Submitted int64
	Dropped   int64
	Succeeded int64
	Failed    int64
}

// Worker 异步任务处理器
type Worker struct {
	name      string
	taskQueue chan Task
	last      Result
	stats     Stats
	closed    bool
	mu        sync.RWMutex
	logger    *logger.Logger
	wg        sync.WaitGroup
	// retryDelay 第n次重试前等待 n*retryDelay
	retryDelay time.Duration
}

// NewWorker 创建一个新的工作器
func NewWorker(name string, queueSize int, logger *logger.Logger) *Worker {
	return &Worker{
		name:       name,
		taskQueue:  make(chan Task, queueSize),
		logger:     logger,
		retryDelay: time.Second,
	}
}

// SetRetryDelay 设置重试退避基数
func (w *Worker) SetRetryDelay(d time.Duration) {
	w.retryDelay = d
}

// Start 启动工作器
func (w *Worker) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.processTask()
	}
}

// Stop 停止接收新任务，并等待队列中的任务执行完毕
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.taskQueue)
	w.mu.Unlock()
	w.wg.Wait()
}

// Submit 将任务加入队列，不阻塞调用方；队列已满或已停止时返回false
func (w *Worker) Submit(task Task) bool {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.stats.Dropped++
		return false
	}

	select {
	case w.taskQueue <- task:
		w.stats.Submitted++
		return true
	default:
		w.stats.Dropped++
		w.logger.Warn("任务队列已满，丢弃任务", "worker", w.name, "task", task.Name)
		return false
	}
}

// LastResult 获取最近一次任务结果
func (w *Worker) LastResult() (Result, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, w.last.TaskID != ""
}

// Stats 获取统计信息
func (w *Worker) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// processTask 处理任务的工作循环
func (w *Worker) processTask() {
	defer w.wg.Done()

	for task := range w.taskQueue {
		w.executeTask(task)
	}
}

// executeTask 执行单个任务
func (w *Worker) executeTask(task Task) {
	result := Result{
		TaskID:    task.ID,
		Name:      task.Name,
		StartTime: time.Now(),
	}

	ctx := context.Background()
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	var err error
	for attempt := 0; attempt <= task.RetryMax; attempt++ {
		if attempt > 0 {
			w.logger.Debug("重试任务", "worker", w.name, "task", task.Name, "attempt", attempt)
			select {
			case <-time.After(w.retryDelay * time.Duration(attempt)):
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				err = ctx.Err()
				break
			}
		}

		err = w.run(ctx, task)
		if err == nil {
			break
		}
	}

	result.EndTime = time.Now()
	result.Error = err
	result.Completed = err == nil

	w.mu.Lock()
	w.last = result
	if err != nil {
		w.stats.Failed++
	} else {
		w.stats.Succeeded++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("异步任务失败", "worker", w.name, "task", task.Name, "task_id", task.ID, "error", err)
		return
	}
	w.logger.Debug("异步任务完成", "worker", w.name, "task", task.Name, "duration", result.EndTime.Sub(result.StartTime))
}

// run 执行任务处理函数，处理函数panic时转换为错误
func (w *Worker) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return task.Handler(ctx)
}
