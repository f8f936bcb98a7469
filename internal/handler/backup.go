package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler 全量快照备份。快照写到独立目录，系统不会自动读回。
type BackupHandler struct {
	Store *store.Store
}

func NewBackupHandler(st *store.Store) *BackupHandler {
	return &BackupHandler{Store: st}
}

// CreateBackup 生成一份带时间戳的全量快照文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	path, err := h.Store.Snapshot()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建备份失败")
		return
	}

	info, _ := os.Stat(path)
	var size int64
	if info != nil {
		size = info.Size()
	}

	util.Success(c, util.Response{
		"backup": gin.H{
			"file_name": filepath.Base(path),
			"size":      size,
		},
	})
}
