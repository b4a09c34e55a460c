package global

import (
	"github.com/studyforge/study-note-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT          string
	Name          string = "Study Note Service"
	WebClientName string = "Web"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
