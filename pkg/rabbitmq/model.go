package rabbitmq

import "encoding/json"

// Task is one unit of crawl work taken off a queue.
type Task struct {
	Store string `json:"store"`
	URL   string `json:"url"`
	Page  int    `json:"page"`
}

func (t *Task) Byte() []byte {
	b, err := json.Marshal(t)
	if err != nil {
		return nil
	}
	return b
}
