package markup

import "regexp"

var todoTagPattern = regexp.MustCompile(`<label class="todo-item" data-line="\d+"><input type="checkbox" class="todo-checkbox" data-line="\d+"( checked)? /><span class="todo-text( todo-checked)?">|</span></label>`)
