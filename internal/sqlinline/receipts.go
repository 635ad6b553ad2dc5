package sqlinline

const QNextReceiptNumber = `--sql da6e0d92-7699-44bb-b06e-7bb5b3faf1a8
insert into receipt_sequences(year, last_receipt_number, updated_at)
values ($1::int, 1, now())
on conflict (year) do update set
    last_receipt_number = receipt_sequences.last_receipt_number + 1,
    updated_at = now()
returning last_receipt_number;
`

const QCurrentReceiptNumber = `--sql 18414c39-498d-4292-b3a2-ecb3b2ee4e00
select coalesce((select last_receipt_number from receipt_sequences where year = $1::int), 0);
`
